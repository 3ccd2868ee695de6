// Package historycmder provides the history subcommand for listing past
// extraction runs.
package historycmder

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/spool/pkg/config"
	"github.com/papercomputeco/spool/pkg/dotdir"
	"github.com/papercomputeco/spool/pkg/history"
	"github.com/papercomputeco/spool/pkg/utils"
)

type historyCommander struct {
	historyDB string
	limit     int
	configDir string
}

const historyLongDesc string = `List past extraction runs, newest first.

Each run records the source log file, its chat and action identifiers, how
many files came out of the request and response payloads, and where the
extracted tree was written.

Examples:
  spool history
  spool history -n 50
  spool history --history-db /tmp/history.db`

const historyShortDesc string = "List past extraction runs"

func NewHistoryCmd() *cobra.Command {
	cmder := &historyCommander{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.configDir, err = cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.CommonFlags,
				[]string{config.FlagHistoryDB})

			cmder.historyDB = v.GetString("history.sqlite_path")

			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.CommonFlags, config.FlagHistoryDB, &cmder.historyDB)
	cmd.Flags().IntVarP(&cmder.limit, "limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

func (c *historyCommander) run(ctx context.Context) error {
	path := c.historyDB
	if path == "" {
		var err error
		path, err = dotdir.NewManager().HistoryDBPath(c.configDir)
		if err != nil {
			return err
		}
	}

	store, err := history.Open(ctx, path)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.Recent(ctx, c.limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No extraction runs recorded yet.")
		return nil
	}

	fmt.Println(renderRuns(runs))

	return nil
}

func renderRuns(runs []history.Run) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cellStyle := lipgloss.NewStyle().PaddingRight(2)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("WHEN", "LOG FILE", "CHAT", "ACTION", "REQ", "RESP", "OUTPUT")

	for _, r := range runs {
		t.Row(
			r.CreatedAt.Local().Format(time.DateTime),
			filepath.Base(r.LogFile),
			r.ChatID,
			r.ActionKey,
			strconv.Itoa(r.RequestFiles),
			strconv.Itoa(r.ResponseFiles),
			utils.Truncate(r.OutputDir, 48),
		)
	}

	return t.Render()
}
