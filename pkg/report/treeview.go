package report

import (
	"path"
	"sort"
	"strings"

	"github.com/papercomputeco/spool/pkg/extract"
)

// TreeView synthesizes a directory tree from the paths actually extracted.
// Paths with no directory component go into a root group rendered as flat
// indented lines; grouped paths render as "directory/" followed by indented
// entries. Directories and filenames are sorted lexicographically.
//
// The separator glyphs are cosmetic; consumers should not parse this output.
func TreeView(files extract.FileMapping) string {
	if len(files) == 0 {
		return "No files extracted"
	}

	groups := map[string][]string{}
	for _, p := range sortedPaths(files) {
		dir, name := path.Split(p)
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" {
			groups["."] = append(groups["."], name)
		} else {
			groups[dir] = append(groups[dir], name)
		}
	}

	dirs := make([]string, 0, len(groups))
	for dir := range groups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	var lines []string
	for _, dir := range dirs {
		if dir != "." {
			lines = append(lines, dir+"/")
		}
		names := groups[dir]
		sort.Strings(names)
		for _, name := range names {
			if dir == "." {
				lines = append(lines, "  "+name)
			} else {
				lines = append(lines, "  └── "+name)
			}
		}
	}

	return strings.Join(lines, "\n")
}
