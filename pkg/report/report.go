// Package report builds the reconciliation report for one extraction run.
//
// Build is a pure function of its inputs: two file mappings, the optionally
// located tree metadata, and identifying context. Identical inputs always
// produce byte-identical output, so the report can be regenerated from the
// same log at any time.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/papercomputeco/spool/pkg/extract"
)

// Params carries everything Build needs. TreeMetadata is the verbatim
// serialized tree located in the request text; empty means absent and the
// section is omitted.
type Params struct {
	ChatID    string
	ActionKey string
	LogFile   string
	OutputDir string

	RequestFiles  extract.FileMapping
	ResponseFiles extract.FileMapping
	TreeMetadata  string
}

var rule = strings.Repeat("=", 80)

// Build renders the full report text.
func Build(p Params) string {
	lines := []string{
		rule,
		"FILE EXTRACTION REPORT",
		rule,
		"",
		"## Metadata",
		fmt.Sprintf("  Chat ID:     %s", p.ChatID),
		fmt.Sprintf("  Action Key:  %s", p.ActionKey),
		fmt.Sprintf("  Log File:    %s", p.LogFile),
		fmt.Sprintf("  Output Dir:  %s", p.OutputDir),
		"",
		rule,
		"## REQUEST FILES (Serialized Input)",
		rule,
		"",
	}

	if len(p.RequestFiles) > 0 {
		lines = append(lines, fmt.Sprintf("Total files extracted from request: %d", len(p.RequestFiles)), "")
		lines = append(lines, fileListing(p.RequestFiles)...)
		lines = append(lines, "", "### Actual File Tree (from extracted files):", TreeView(p.RequestFiles))
	} else {
		lines = append(lines, "No files found in request")
	}

	lines = append(lines,
		"",
		rule,
		"## RESPONSE FILES (AI Generated)",
		rule,
		"",
	)

	if len(p.ResponseFiles) > 0 {
		lines = append(lines, fmt.Sprintf("Total files generated in response: %d", len(p.ResponseFiles)), "")
		lines = append(lines, fileListing(p.ResponseFiles)...)
		lines = append(lines, "", "### Actual File Tree (from generated files):", TreeView(p.ResponseFiles))
	} else {
		lines = append(lines, "No files found in response")
	}

	if p.TreeMetadata != "" {
		lines = append(lines,
			"",
			rule,
			"## SERIALIZED FILE TREE (from request metadata)",
			rule,
			"",
			p.TreeMetadata,
		)
	}

	lines = append(lines,
		"",
		rule,
		"## COMPARISON",
		rule,
		"",
		fmt.Sprintf("Request files:  %d", len(p.RequestFiles)),
		fmt.Sprintf("Response files: %d", len(p.ResponseFiles)),
		fmt.Sprintf("Total files:    %d", len(p.RequestFiles)+len(p.ResponseFiles)),
	)

	if common := commonPaths(p.RequestFiles, p.ResponseFiles); len(common) > 0 {
		lines = append(lines,
			"",
			fmt.Sprintf("⚠️  WARNING: %d files appear in both request and response:", len(common)),
		)
		for _, path := range common {
			lines = append(lines, fmt.Sprintf("  - %s", path))
		}
	}

	lines = append(lines,
		"",
		rule,
		"## SUMMARY",
		rule,
		"",
		"✓ Extraction completed successfully",
		fmt.Sprintf("✓ Files saved to: %s", p.OutputDir),
		fmt.Sprintf("✓ Report saved to: %s/REPORT.md", p.OutputDir),
		"",
	)

	return strings.Join(lines, "\n")
}

// fileListing renders the sorted path + byte-length list for one side.
func fileListing(files extract.FileMapping) []string {
	lines := []string{"### File List:"}
	for _, path := range sortedPaths(files) {
		lines = append(lines, fmt.Sprintf("  - %s (%s bytes)", path, comma(len(files[path]))))
	}
	return lines
}

// commonPaths returns the sorted intersection of both mappings' key sets.
func commonPaths(a, b extract.FileMapping) []string {
	var common []string
	for path := range a {
		if _, ok := b[path]; ok {
			common = append(common, path)
		}
	}
	sort.Strings(common)
	return common
}

func sortedPaths(files extract.FileMapping) []string {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// comma formats n with thousands separators (1234567 -> "1,234,567").
func comma(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
