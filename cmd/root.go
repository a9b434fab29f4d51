// Package cmd provides the root command and CLI setup for retouch.
package cmd

import (
	"os"

	"github.com/flatgrass/retouch/internal/adapter"
	"github.com/flatgrass/retouch/internal/controller"
	"github.com/flatgrass/retouch/internal/domain"
	m "github.com/flatgrass/retouch/internal/model"
	"github.com/spf13/cobra"
)

var fileStore adapter.FileStore
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fileStore = adapter.NewLocalFileStore()
	reportStore = adapter.NewLocalReportStore()
	workflow = domain.NewWorkflow(fileStore, reportStore, ui)
}

var configFlag string
var reportsFlag string
var dryRunFlag bool
var rootExcludeFlags []string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retouch",
		Short: "Recurring source fix runner",
		Long: `Retouch applies a declared patch set to a source tree: line injections
that add a missing declaration to every listed file, and regular
expression substitutions that rewrite a recurring defect in place.

Runs are idempotent. A file that already carries its fix is reported
and left alone, so the same patch set can be re-run after every merge.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			args := domain.ApplyArgs{
				PlanArgs: domain.PlanArgs{
					Config:  m.Path(configFlag),
					Exclude: rootExcludeFlags,
				},
				Reports: m.Path(reportsFlag),
			}
			if dryRunFlag {
				return workflow.Plan(args.PlanArgs)
			}

			return workflow.Apply(args)
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "retouch.toml", "path to the patch set")
	cmd.PersistentFlags().StringVar(&reportsFlag, "reports", ".retouch-reports", "directory where run reports are stored")
	cmd.Flags().BoolVarP(&dryRunFlag, "dry-run", "n", false, "preview outcomes and diffs without writing any file")
	cmd.Flags().StringArrayVarP(&rootExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
