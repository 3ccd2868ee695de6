// Package extract recognizes embedded source files in free-form log text.
//
// Two serialization conventions appear in captured gateway traffic: a shell
// heredoc convention (cat > path << 'EOF' ... EOF) and a structured fenced
// convention (#### filePath / #### fileContents blocks). Each recognizer is
// a pure function over text producing a FileMapping; neither holds state
// between invocations.
package extract

import "maps"

// FileMapping maps a slash-delimited relative path to the exact extracted
// file content. Keys are unique within one extraction pass: same-path
// collisions are renamed, never overwritten.
type FileMapping map[string]string

// All runs every recognizer over text and merges the results into a single
// mapping. Structured-block matches are applied after heredoc matches, so
// they take precedence on key collision.
func All(text string) FileMapping {
	files := Heredoc(text)
	maps.Copy(files, Structured(text))
	return files
}
