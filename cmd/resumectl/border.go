package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-builder/resume/model"
)

func newBorderCmd() *cobra.Command {
	border := &cobra.Command{
		Use:   "border",
		Short: "Photo border style helpers",
	}
	border.AddCommand(&cobra.Command{
		Use:   "next [STYLE]",
		Short: "Print the style that follows STYLE in the editor's cycle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var current model.BorderStyle
			if len(args) == 1 {
				style, ok := model.ParseBorderStyle(args[0])
				if !ok {
					return fmt.Errorf("unknown border style %q", args[0])
				}
				current = style
			}
			fmt.Fprintln(cmd.OutOrStdout(), current.Next())
			return nil
		},
	})
	return border
}
