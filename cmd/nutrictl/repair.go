package main

import (
	"fmt"

	"github.com/fdg312/nutrition-hub/internal/httpserver"
	"github.com/spf13/cobra"
)

var (
	repairApply bool
	repairJSON  bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Recompute cached totals and report drift",
	Long:  "repair recomputes every active food, meal and daily plan from its children. Without --apply it only reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		services := httpserver.NewServices(e.cfg, e.store, nil, e.events, e.logger)
		report, err := services.Repair.Run(cmd.Context(), repairApply)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if repairJSON {
			return printJSON(out, report)
		}

		fmt.Fprintf(out, "Checked: %d\n", report.Checked)
		fmt.Fprintf(out, "Drifts: %d\n", len(report.Drifts))
		for _, d := range report.Drifts {
			fmt.Fprintf(out, "  %s\t%s\t%s\tcached=%.2f kcal\trecomputed=%.2f kcal\n",
				d.Kind, d.ID, d.Name, d.Cached.Values.Calories, d.Recomputed.Values.Calories)
		}
		fmt.Fprintf(out, "Orphans: %d\n", len(report.Orphans))
		for _, o := range report.Orphans {
			state := "deleted"
			if o.Missing {
				state = "missing"
			}
			fmt.Fprintf(out, "  %s\t%s\t-> %s %s (%s)\n", o.Kind, o.ID, o.ChildKind, o.ChildID, state)
		}
		if report.Applied {
			fmt.Fprintf(out, "Repaired: %d\n", report.Repaired)
		}
		if len(report.Failures) > 0 {
			return fmt.Errorf("%d corrections could not be saved", len(report.Failures))
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().BoolVar(&repairApply, "apply", false, "Save corrected totals")
	repairCmd.Flags().BoolVar(&repairJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(repairCmd)
}
