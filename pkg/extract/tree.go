package extract

import (
	"regexp"
	"strings"
)

// treePatterns are the bracketing-tag conventions that wrap serialized file
// tree metadata in request text, in priority order. The CODEBASE open tag
// may carry attributes; its close tag is always the bare literal.
var treePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)<TEMPLATE_FILE_TREE>(.*?)</TEMPLATE_FILE_TREE>`),
	regexp.MustCompile(`(?s)<FILE_TREE>(.*?)</FILE_TREE>`),
	regexp.MustCompile(`(?s)<CODEBASE.*?>(.*?)</CODEBASE>`),
}

// LocateTree scans text for serialized file tree metadata and returns the
// trimmed interior of the first convention that matches. The metadata is
// never parsed, only carried through verbatim for the report.
func LocateTree(text string) (string, bool) {
	for _, pattern := range treePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}
