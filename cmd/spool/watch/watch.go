// Package watchcmder provides the watch subcommand for continuously
// extracting from gateway logs as they land in a directory.
package watchcmder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/dotdir"
	"github.com/papercomputeco/spool/pkg/history"
	"github.com/papercomputeco/spool/pkg/logger"
	"github.com/papercomputeco/spool/pkg/pipeline"
)

const watchLogFile = "watch.log"

type watchCommander struct {
	dir        string
	outputRoot string
	historyDB  string
	noHistory  bool
	configDir  string
	debug      bool

	logger *slog.Logger
}

const watchLongDesc string = `Watch a directory for new gateway log files and extract from each.

Every .json file created in the watched directory is run through the same
extraction pipeline as "spool extract". A failure in one log file is logged
and does not stop the watch.

Progress is written to stdout and, as JSON, to watch.log in the .spool/
directory.

Examples:
  spool watch /var/log/gateway
  spool watch ./captures -o /tmp/forensics`

const watchShortDesc string = "Extract from new gateway logs as they appear"

func NewWatchCmd() *cobra.Command {
	cmder := &watchCommander{}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: watchShortDesc,
		Long:  watchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.dir = args[0]

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

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.CommonFlags, config.FlagOutputRoot, &cmder.outputRoot)
	config.AddStringFlag(cmd, config.CommonFlags, config.FlagHistoryDB, &cmder.historyDB)
	cmd.Flags().BoolVar(&cmder.noHistory, "no-history", false, "Do not record runs in history")

	return cmd
}

func (c *watchCommander) run(ctx context.Context) error {
	ddm := dotdir.NewManager()

	if err := c.setupLogger(ddm); err != nil {
		return err
	}

	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", c.dir)
	}

	store, err := c.openHistory(ctx, ddm)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	pipe := pipeline.New(pipeline.Options{
		OutputRoot: c.outputRoot,
		History:    store,
		Logger:     c.logger,
	})

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(c.dir); err != nil {
		return fmt.Errorf("watching %s: %w", c.dir, err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	c.logger.Info("watching for gateway logs", "dir", c.dir, "output", c.outputRoot)

	for {
		select {
		case <-sigChan:
			c.logger.Info("watch stopped")
			return nil

		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}

			outcome, err := pipe.Process(ctx, event.Name)
			if err != nil {
				// Keep watching; a bad log must not end the session.
				c.logger.Error("extraction failed", "file", event.Name, "error", err)
				continue
			}
			c.logger.Info("extracted",
				"file", filepath.Base(event.Name),
				"files", outcome.TotalFiles(),
				"output", outcome.OutputDir,
			)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watcher error", "error", err)
		}
	}
}

// setupLogger fans out pretty output to stdout and JSON to .spool/watch.log.
func (c *watchCommander) setupLogger(ddm *dotdir.Manager) error {
	pretty := logger.New(logger.WithPretty(true), logger.WithDebug(c.debug))

	target, err := ddm.Target(c.configDir)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(filepath.Join(target, watchLogFile),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening watch log: %w", err)
	}

	structured := logger.New(logger.WithJSON(true), logger.WithDebug(c.debug), logger.WithWriter(logFile))
	c.logger = logger.Multi(pretty, structured)

	return nil
}

func (c *watchCommander) openHistory(ctx context.Context, ddm *dotdir.Manager) (*history.Store, error) {
	if c.noHistory {
		return nil, nil
	}

	path := c.historyDB
	if path == "" {
		var err error
		path, err = ddm.HistoryDBPath(c.configDir)
		if err != nil {
			return nil, err
		}
	}

	return history.Open(ctx, path)
}
