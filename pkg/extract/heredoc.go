package extract

import "regexp"

// heredocPattern matches one shell heredoc block. The path is a maximal run
// of non-whitespace, non-'<' characters; the content is the minimal run of
// characters up to a line that is exactly EOF. The final newline before the
// closing EOF is not part of the content.
var heredocPattern = regexp.MustCompile(`(?s)cat > ([^\s<]+) << 'EOF'\n(.*?)\nEOF(?:\n|$)`)

// Heredoc extracts files embedded in shell heredoc form:
//
//	cat > path/to/file << 'EOF'
//	...content...
//	EOF
//
// Matches are found left-to-right in document order, non-overlapping.
// Colliding paths are renamed via the shared deduplication policy.
func Heredoc(text string) FileMapping {
	files := FileMapping{}

	for _, m := range heredocPattern.FindAllStringSubmatch(text, -1) {
		path := reservePath(m[1], files)
		files[path] = m[2]
	}

	return files
}
