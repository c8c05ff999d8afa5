package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"resume-builder/resume/render"
)

func newPreviewCmd() *cobra.Command {
	var width float64
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Print the preview document of a resume record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			doc := render.Render(rec, width, rec.Photo.Ref)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().Float64Var(&width, "width", render.ReferenceWidth, "Container width in CSS pixels")
	return cmd
}
