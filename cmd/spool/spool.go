// Package spoolcmder
package spoolcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/spool/cmd/spool/config"
	extractcmder "github.com/papercomputeco/spool/cmd/spool/extract"
	historycmder "github.com/papercomputeco/spool/cmd/spool/history"
	versioncmder "github.com/papercomputeco/spool/cmd/spool/version"
	watchcmder "github.com/papercomputeco/spool/cmd/spool/watch"
)

const spoolLongDesc string = `Spool recovers the files hiding inside captured AI gateway logs.

Extract files from logs using:
  spool extract <log.json>     Extract files and build a report
  spool watch <dir>            Extract from new logs as they appear
  spool history                List past extraction runs`

const spoolShortDesc string = "Spool - Gateway Log Forensics"

func NewSpoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: spoolShortDesc,
		Long:  spoolLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .spool/ config directory")

	// Add subcommands
	cmd.AddCommand(extractcmder.NewExtractCmd())
	cmd.AddCommand(watchcmder.NewWatchCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
