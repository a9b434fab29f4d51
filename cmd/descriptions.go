package cmd

const applyLongDescription = `Apply every rule in the patch set to its listed files.

Changed files are written back atomically and the full run report is
stored in the reports directory. Files that already carry their fix are
reported and left untouched, so repeated runs are safe. The command
exits non-zero when any file could not be read or written.`

const planLongDescription = `Preview what apply would do without writing anything.

Every rule is evaluated against its listed files and the would-be
outcome is reported together with a unified diff of the pending change.
No file is modified and no report is stored.`

const viewLongDescription = `View the most recent stored run report.

In a terminal the report opens in an interactive browser with per-file
diffs. Outside a terminal it is printed as plain text.`
