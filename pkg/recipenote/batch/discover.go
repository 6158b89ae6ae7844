package batch

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var partIndex = regexp.MustCompile(`Part(\d+)`)

// Discover returns the files in dir matching the glob pattern, ordered by
// their numeric Part index ("Part2" before "Part10"). Files without an index
// follow, in name order.
func Discover(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, aok := PartIndex(matches[i])
		b, bok := PartIndex(matches[j])
		switch {
		case aok && bok && a != b:
			return a < b
		case aok != bok:
			return aok
		}
		return matches[i] < matches[j]
	})
	return matches, nil
}

// PartIndex returns the number following "Part" in the file name
func PartIndex(path string) (int, bool) {
	m := partIndex.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// TitleFromPattern builds the fallback title function for a pattern: the
// pattern's literal prefix (everything before the first wildcard) is replaced
// by "Recipe ", so "Tasty Shreds Jan-Feb-March_Part7.pdf" becomes "Recipe 7".
func TitleFromPattern(pattern string) func(path string) string {
	prefix := pattern
	if i := strings.IndexAny(pattern, "*?["); i >= 0 {
		prefix = pattern[:i]
	}
	return func(path string) string {
		base := filepath.Base(path)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if prefix == "" {
			return stem
		}
		return strings.Replace(stem, prefix, "Recipe ", 1)
	}
}
