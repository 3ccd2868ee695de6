// Package pipeline runs the full extraction flow for one gateway log record:
// normalize both sides, run every recognizer, locate tree metadata, build the
// reconciliation report, persist artifacts, and record the run in history.
//
// Each log file is processed to completion independently; the pipeline holds
// no mutable state across records.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/papercomputeco/spool/pkg/artifact"
	"github.com/papercomputeco/spool/pkg/extract"
	"github.com/papercomputeco/spool/pkg/gateway"
	"github.com/papercomputeco/spool/pkg/history"
	"github.com/papercomputeco/spool/pkg/payload"
	"github.com/papercomputeco/spool/pkg/report"
)

// Options configures a Pipeline.
type Options struct {
	// OutputRoot is the directory under which per-run output directories
	// are created.
	OutputRoot string

	// History records completed runs when non-nil.
	History *history.Store

	// Logger receives progress output. Nil discards.
	Logger *slog.Logger
}

// Pipeline processes gateway log files.
type Pipeline struct {
	outputRoot string
	history    *history.Store
	logger     *slog.Logger
}

// Outcome is the result of processing one log file.
type Outcome struct {
	LogFile   string
	ChatID    string
	ActionKey string
	OutputDir string

	RequestFiles  extract.FileMapping
	ResponseFiles extract.FileMapping
	TreeMetadata  string
	Report        string
}

// TotalFiles returns the combined count of extracted files on both sides.
func (o *Outcome) TotalFiles() int {
	return len(o.RequestFiles) + len(o.ResponseFiles)
}

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Pipeline{
		outputRoot: opts.OutputRoot,
		history:    opts.History,
		logger:     logger,
	}
}

// Process extracts files from one gateway log and persists the results.
// Parse-level anomalies inside the record degrade to empty extractions;
// only filesystem and history failures surface as errors.
func (p *Pipeline) Process(ctx context.Context, logPath string) (*Outcome, error) {
	record, err := gateway.Load(logPath)
	if err != nil {
		return nil, err
	}

	chatID := record.Metadata.ChatID()
	actionKey := record.Metadata.ActionKey()

	p.logger.Debug("processing log",
		"file", logPath,
		"chat_id", chatID,
		"action_key", actionKey,
	)

	requestText := payload.Normalize(record.RequestHead, payload.Request)
	responseText := payload.Normalize(record.ResponseHead, payload.Response)

	requestFiles := extract.All(requestText)
	responseFiles := extract.All(responseText)
	tree, _ := extract.LocateTree(requestText)

	p.logger.Info("extracted files",
		"request", len(requestFiles),
		"response", len(responseFiles),
	)

	sink := artifact.NewSink(p.outputRoot, actionKey, chatID)

	reportText := report.Build(report.Params{
		ChatID:        chatID,
		ActionKey:     actionKey,
		LogFile:       filepath.Base(logPath),
		OutputDir:     sink.Dir(),
		RequestFiles:  requestFiles,
		ResponseFiles: responseFiles,
		TreeMetadata:  tree,
	})

	if err := sink.WriteFiles(payload.Request.String(), requestFiles); err != nil {
		return nil, fmt.Errorf("saving request files: %w", err)
	}
	if err := sink.WriteFiles(payload.Response.String(), responseFiles); err != nil {
		return nil, fmt.Errorf("saving response files: %w", err)
	}
	if err := sink.WriteReport(reportText); err != nil {
		return nil, fmt.Errorf("saving report: %w", err)
	}

	outcome := &Outcome{
		LogFile:       logPath,
		ChatID:        chatID,
		ActionKey:     actionKey,
		OutputDir:     sink.Dir(),
		RequestFiles:  requestFiles,
		ResponseFiles: responseFiles,
		TreeMetadata:  tree,
		Report:        reportText,
	}

	if p.history != nil {
		run := history.Run{
			LogFile:       logPath,
			ChatID:        chatID,
			ActionKey:     actionKey,
			RequestFiles:  len(requestFiles),
			ResponseFiles: len(responseFiles),
			OutputDir:     sink.Dir(),
		}
		if err := p.history.Record(ctx, run); err != nil {
			return nil, fmt.Errorf("recording run history: %w", err)
		}
	}

	return outcome, nil
}
