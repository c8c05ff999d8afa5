package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"resume-builder/internal/editor"
	"resume-builder/resume/model"
	"resume-builder/resume/validation"
)

// errInvalid signals a completed run that found violations.
var errInvalid = errors.New("resume is invalid")

func newValidateCmd() *cobra.Command {
	var step string
	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Validate a resume record file",
		Long:  "Checks the document shape, then applies the combined schema or, with --step, only that step's schema. Every violation is listed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := validation.Resume
			if step != "" {
				found, ok := editor.StepByKey(step)
				if !ok {
					return fmt.Errorf("unknown step %q", step)
				}
				s = found.Schema
			}
			rec, err := readRecord(args[0], cmd.InOrStdin())
			return report(cmd.OutOrStdout(), args[0], s, rec, err)
		},
	}
	cmd.Flags().StringVar(&step, "step", "", "Validate only the fields of this editing step")
	return cmd
}

// report validates rec against s unless decoding already failed, and prints
// either a success line or one line per violation.
func report(out io.Writer, path string, s validation.Schema, rec model.Record, decodeErr error) error {
	err := decodeErr
	if err == nil {
		_, err = s.Validate(rec)
	}
	if err == nil {
		color.New(color.FgGreen).Fprint(out, "OK")
		fmt.Fprintf(out, " %s is valid (%s)\n", path, s.Name())
		return nil
	}

	verr, ok := validation.AsValidationError(err)
	if !ok {
		return err
	}
	red := color.New(color.FgRed)
	for _, fe := range verr.Errors {
		red.Fprintf(out, "%-32s", fe.Path)
		fmt.Fprintf(out, " %-20s %s\n", fe.Code, fe.Message)
	}
	return fmt.Errorf("%w: %d violation(s)", errInvalid, len(verr.Errors))
}
