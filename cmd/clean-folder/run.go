package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/panics"
	"github.com/spf13/afero"

	internal "github.com/vladstelmakh/clean-folder/cleanfolder"
	"github.com/vladstelmakh/clean-folder/cleanfolder/config"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem"
	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
	"github.com/vladstelmakh/clean-folder/cleanfolder/ports"
)

const failureMessage = "\nAn error occurred. In order for the script to work correctly, close the target folder and try again."

// run organizes target and reports to stdout. Failures of the run itself are
// shown to the user and never turn into a non-zero exit.
func run(ctx context.Context, target string, cfg *config.Config, stdout, stderr io.Writer) error {
	logger := newLogger(stderr, cfg.Level())
	ctx = logger.WithContext(ctx)

	organizer := filesystem.New(afero.NewOsFs(), ports.NewWriterInteractor(stdout))

	var (
		report *types.RunReport
		err    error
	)
	var catcher panics.Catcher
	catcher.Try(func() {
		report, err = organizer.Organize(ctx, target, cfg.OrganizeOptions())
	})
	if recovered := catcher.Recovered(); recovered != nil {
		err = recovered.AsError()
	}

	if err != nil {
		logger.Debug().Err(err).Str("target", target).Msg("Folder organization failed")
		fmt.Fprintln(stdout, failureMessage)
		if cfg.Verbose {
			fmt.Fprintln(stdout, err)
		}
		return nil
	}

	if cfg.Verbose {
		fmt.Fprintln(stdout, renderSummary(report))
	}
	return nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: noColor, TimeFormat: time.Kitchen}
	return internal.NewLogger(console, level)
}
