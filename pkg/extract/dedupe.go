package extract

import (
	"fmt"
	"path"
	"strings"
)

// reservePath returns a key for candidate that is not already present in
// files. The first collision yields stem_v1.ext, the second stem_v2.ext,
// and so on. Suffixes are always derived from the original candidate, so
// repeated collisions increment the counter rather than stacking suffixes.
func reservePath(candidate string, files FileMapping) string {
	if _, exists := files[candidate]; !exists {
		return candidate
	}

	ext := path.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)

	for counter := 1; ; counter++ {
		renamed := fmt.Sprintf("%s_v%d%s", stem, counter, ext)
		if _, exists := files[renamed]; !exists {
			return renamed
		}
	}
}
