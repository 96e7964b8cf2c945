package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joelkehle/ethiguide/internal/analysis"
	"github.com/joelkehle/ethiguide/internal/dilemma"
)

func newCategoriesCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List dilemma categories and urgency levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Categories:")
			for _, c := range dilemma.Categories() {
				if verbose {
					g := analysis.GuidanceFor(c)
					fmt.Fprintf(out, "  %-22s %s\n", c, g.Framework)
					continue
				}
				fmt.Fprintf(out, "  %s\n", c)
			}
			fmt.Fprintln(out, "Urgency:")
			for _, u := range dilemma.UrgencyLevels() {
				fmt.Fprintf(out, "  %-9s %s\n", u.Value, u.Label)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show the guiding framework of each category")
	return cmd
}
