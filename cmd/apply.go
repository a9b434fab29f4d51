package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatgrass/retouch/internal/domain"
	m "github.com/flatgrass/retouch/internal/model"
)

var applyExcludeFlags []string

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the patch set and store a run report",
		Long:  applyLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Apply(domain.ApplyArgs{
				PlanArgs: domain.PlanArgs{
					Config:  m.Path(configFlag),
					Exclude: applyExcludeFlags,
				},
				Reports: m.Path(reportsFlag),
			})
		},
	}
	cmd.Flags().StringArrayVarP(&applyExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
