package main

import (
	"io"

	"github.com/spf13/cobra"

	internal "github.com/vladstelmakh/clean-folder/cleanfolder"
	"github.com/vladstelmakh/clean-folder/cleanfolder/config"
)

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   internal.DefaultAppCMDShortCut + " <folder>",
		Short: "Sort a cluttered folder into category folders",
		Long: `Normalizes every file and folder name below <folder> to latin letters,
digits and underscores, sorts files into images, videos, documents, audio
and archives folders, unpacks archives and removes folders left empty.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), args[0], cfg, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().BoolP("verbose", "v", false, "print debug logs, a run summary and full error details")
	return cmd
}
