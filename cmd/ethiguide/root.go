// ethiguide serves the ethical decision wizard and exports decision summaries.
//
// Usage:
//
//	ethiguide serve [--addr :8080] [--config ethiguide.yaml] [--store memory|sqlite]
//	ethiguide export -f dilemma.yaml [-o summary.json] [--format json|md|pdf]
//	ethiguide categories
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ethiguide",
		Short: "Guided analysis of ethical dilemmas",
		Long: "EthiGuide walks through describing a dilemma, then shows framework,\n" +
			"stakeholder and outcome analysis and a final recommendation.",
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Version: version,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newCategoriesCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
