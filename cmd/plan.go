package cmd

import (
	"github.com/spf13/cobra"

	"github.com/flatgrass/retouch/internal/domain"
	m "github.com/flatgrass/retouch/internal/model"
)

var planExcludeFlags []string

// planCmd represents the plan command.
var planCmd = newPlanCmd()

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the patch set without writing anything",
		Long:  planLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.Plan(domain.PlanArgs{
				Config:  m.Path(configFlag),
				Exclude: planExcludeFlags,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&planExcludeFlags, "exclude", "x", nil, "exclude files matching regex (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(planCmd)
}
