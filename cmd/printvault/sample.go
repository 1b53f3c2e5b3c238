package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/printvault/internal/core"
)

var sampleOutput string

func newSampleCmd() *cobra.Command {
	sampleCmd := &cobra.Command{
		Use:   "sample-csv",
		Short: "Print a sample import file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sampleOutput == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), core.SampleCSV())
				return err
			}
			if err := os.WriteFile(sampleOutput, []byte(core.SampleCSV()), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", sampleOutput, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", sampleOutput)
			return nil
		},
	}

	sampleCmd.Flags().StringVarP(&sampleOutput, "output", "o", "", "write to this file instead of stdout (e.g. "+core.SampleCSVFileName+")")

	return sampleCmd
}
