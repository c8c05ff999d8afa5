package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"resume-builder/resume/export"
	"resume-builder/resume/render"
	"resume-builder/resume/validation"
)

type exportOptions struct {
	format   string
	out      string
	chrome   string
	baseURL  string
	timeout  time.Duration
	validate bool
}

func newExportCmd() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a resume record to docx, html, pdf or json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", string(export.FormatPDF), "Output format: docx, html, pdf or json")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output path (defaults to the input name with the format extension)")
	cmd.Flags().StringVar(&opts.chrome, "chrome", os.Getenv("CHROME_PATH"), "Chrome or Chromium binary used for PDF export")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Base URL relative photo references are resolved against")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "PDF rendering timeout")
	cmd.Flags().BoolVar(&opts.validate, "validate", true, "Reject records that fail the combined schema")
	return cmd
}

func runExport(cmd *cobra.Command, path string, opts exportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	rec, err := readRecord(path, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if opts.validate {
		if _, err := validation.Resume.Validate(rec); err != nil {
			return report(cmd.ErrOrStderr(), path, validation.Resume, rec, err)
		}
	}

	exporter := export.Exporter{PDF: export.PDFPrinter{
		ExecPath: opts.chrome,
		BaseURL:  opts.baseURL,
		Timeout:  opts.timeout,
	}}
	doc := render.Render(rec, render.ReferenceWidth, rec.Photo.Ref)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	data, _, err := exporter.Export(ctx, doc, format)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	outPath := opts.out
	if outPath == "" {
		outPath = outputPath(path, format)
	}
	if outPath == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outPath, len(data))
	return nil
}

func outputPath(in string, format export.Format) string {
	if in == "-" {
		return "resume" + format.Extension()
	}
	base := strings.TrimSuffix(in, ".json")
	return base + format.Extension()
}
