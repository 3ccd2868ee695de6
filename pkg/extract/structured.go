package extract

import (
	"regexp"
	"strings"
)

// structuredPattern matches one tagged file block: a "#### filePath" marker
// followed by a fenced path, then a "#### fileContents" marker followed by a
// fenced content region. An optional one-line language tag immediately after
// the opening content fence is skipped.
var structuredPattern = regexp.MustCompile(
	"(?s)#### filePath\\s*```\\s*([^`]+?)\\s*```\\s*#### fileContents\\s*```(?:[a-z]*\\n)?(.*?)```",
)

// Structured extracts files embedded in the tagged-block form used by
// blueprint requests:
//
//	#### filePath
//	```
//	path/to/file
//	```
//	#### fileContents
//	```lang
//	...content...
//	```
//
// The path is trimmed of surrounding whitespace; the content is taken
// verbatim apart from the optional leading language-tag line. Colliding
// paths are renamed via the shared deduplication policy.
func Structured(text string) FileMapping {
	files := FileMapping{}

	for _, m := range structuredPattern.FindAllStringSubmatch(text, -1) {
		path := reservePath(strings.TrimSpace(m[1]), files)
		files[path] = m[2]
	}

	return files
}
