package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joelkehle/ethiguide/internal/analysis"
	"github.com/joelkehle/ethiguide/internal/dilemma"
	"github.com/joelkehle/ethiguide/internal/export"
	"github.com/joelkehle/ethiguide/internal/wizard"
)

func newExportCmd() *cobra.Command {
	var (
		file       string
		out        string
		format     string
		chromePath string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the decision summary for a dilemma file",
		Long: `Reads a dilemma from a YAML or JSON file and writes its decision summary.
With no -o the summary goes to stdout. Use -o auto for the standard
ethical-decision-<title> file name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read dilemma: %w", err)
			}
			sum, err := summarize(raw, time.Now())
			if err != nil {
				return err
			}
			var pdf export.PDFRenderer
			if format == "pdf" {
				r := export.NewChromiumPDFRenderer(chromePath)
				if !r.Available() {
					return fmt.Errorf("pdf export needs chromium; pass --chrome-path")
				}
				pdf = r
			}
			body, err := render(cmd.Context(), sum, format, pdf)
			if err != nil {
				return err
			}
			if out == "auto" {
				out = export.Filename(sum.Dilemma, format)
			}
			return writeOutput(cmd.OutOrStdout(), out, body)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "dilemma file (YAML or JSON)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, - for stdout, auto for the standard name")
	cmd.Flags().StringVar(&format, "format", "json", "json, md or pdf")
	cmd.Flags().StringVar(&chromePath, "chrome-path", "", "Chromium binary for pdf output")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// summarize runs the dilemma through the wizard's submit check and builds
// its summary. JSON input parses as YAML.
func summarize(raw []byte, now time.Time) (export.Summary, error) {
	var d dilemma.Dilemma
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return export.Summary{}, fmt.Errorf("parse dilemma: %w", err)
	}
	st := wizard.New()
	if err := st.Submit(dilemma.Normalize(d)); err != nil {
		return export.Summary{}, err
	}
	rec, _ := st.Record()
	return export.NewSummary(rec, analysis.Recommend(rec), now), nil
}

func render(ctx context.Context, sum export.Summary, format string, pdf export.PDFRenderer) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		blob, err := sum.JSON()
		if err != nil {
			return nil, err
		}
		return append(blob, '\n'), nil
	case "md", "markdown":
		return []byte(sum.Markdown()), nil
	case "pdf":
		if pdf == nil {
			return nil, fmt.Errorf("pdf renderer unavailable")
		}
		return pdf.Render(ctx, sum.Dilemma, sum.Markdown())
	}
	return nil, fmt.Errorf("unknown format %q (want json, md or pdf)", format)
}

func writeOutput(stdout io.Writer, path string, body []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
