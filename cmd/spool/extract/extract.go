// Package extractcmder provides the extract subcommand for recovering
// embedded files from captured gateway log files.
package extractcmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/spool/pkg/cliui"
	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/dotdir"
	"github.com/papercomputeco/spool/pkg/history"
	"github.com/papercomputeco/spool/pkg/logger"
	"github.com/papercomputeco/spool/pkg/pipeline"
)

type extractCommander struct {
	outputRoot string
	historyDB  string
	noHistory  bool
	render     bool
	configDir  string
	debug      bool

	logger *slog.Logger
	out    io.Writer
}

const extractLongDesc string = `Extract embedded source files from captured gateway logs.

Each log file is processed independently: both payload sides are normalized,
scanned for heredoc and structured file blocks, reconciled against any
serialized file tree found in the request, and written out together with a
REPORT.md under <output>/<actionKey>_<chatId>/.

A failure in one log file does not stop the remaining files.

Examples:
  spool extract gateway-log.json
  spool extract logs/*.json -o /tmp/forensics
  spool extract gateway-log.json --render`

const extractShortDesc string = "Extract files from gateway logs"

func NewExtractCmd() *cobra.Command {
	cmder := &extractCommander{}

	cmd := &cobra.Command{
		Use:   "extract <log-file> [<log-file>...]",
		Short: extractShortDesc,
		Long:  extractLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.CommonFlags,
				[]string{config.FlagOutputRoot, config.FlagHistoryDB})

			cmder.outputRoot = v.GetString("output.root")
			cmder.historyDB = v.GetString("history.sqlite_path")
			if !v.GetBool("history.enabled") {
				cmder.noHistory = true
			}

			cmder.out = cmd.OutOrStdout()
			return cmder.run(cmd.Context(), args)
		},
	}

	config.AddStringFlag(cmd, config.CommonFlags, config.FlagOutputRoot, &cmder.outputRoot)
	config.AddStringFlag(cmd, config.CommonFlags, config.FlagHistoryDB, &cmder.historyDB)
	cmd.Flags().BoolVar(&cmder.noHistory, "no-history", false, "Do not record this run in history")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render each report as markdown in the terminal")

	return cmd
}

func (c *extractCommander) run(ctx context.Context, logFiles []string) error {
	c.logger = logger.New(logger.WithPretty(true), logger.WithDebug(c.debug), logger.WithWriter(c.out))

	store, err := c.openHistory(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	// The spinner owns the terminal line; pipeline progress only goes to
	// the logger in debug mode.
	pipeLogger := c.logger
	if !c.debug {
		pipeLogger = nil
	}

	pipe := pipeline.New(pipeline.Options{
		OutputRoot: c.outputRoot,
		History:    store,
		Logger:     pipeLogger,
	})

	total := 0
	failures := 0
	for _, logFile := range logFiles {
		var outcome *pipeline.Outcome
		stepErr := cliui.Step(c.out, "Extracting "+filepath.Base(logFile), func() error {
			var err error
			outcome, err = pipe.Process(ctx, logFile)
			return err
		})
		if stepErr != nil {
			// One bad record must not abort the batch.
			failures++
			c.logger.Error("extraction failed", "file", logFile, "error", stepErr)
			continue
		}

		total += outcome.TotalFiles()
		c.printReport(outcome)
	}

	fmt.Fprintf(c.out, "\nTotal files extracted: %d\n", total)
	if failures > 0 {
		return fmt.Errorf("%d of %d log files failed", failures, len(logFiles))
	}

	return nil
}

// openHistory opens the run history store unless recording is disabled.
// The database path falls back to <dotdir>/history.db when unconfigured.
func (c *extractCommander) openHistory(ctx context.Context) (*history.Store, error) {
	if c.noHistory {
		return nil, nil
	}

	path := c.historyDB
	if path == "" {
		var err error
		path, err = dotdir.NewManager().HistoryDBPath(c.configDir)
		if err != nil {
			return nil, err
		}
	}

	return history.Open(ctx, path)
}

func (c *extractCommander) printReport(outcome *pipeline.Outcome) {
	if c.render {
		if rendered, err := cliui.RenderMarkdown(outcome.Report); err == nil {
			fmt.Fprint(c.out, rendered)
			return
		}
	}
	fmt.Fprintln(c.out, outcome.Report)
}
