package parser

import (
	"fmt"
	"path/filepath"
)

// ExpandInputs expands a list of file paths and glob patterns into a
// deduplicated list of inputs. Inputs keep the order in which they were
// given; the matches of one pattern are in lexical order, which for
// rotated logs such as app.log.1, app.log.2 is also their age order.
//
// Patterns that don't match any files are returned as-is so that the
// open failure is reported for that input later. "-" stands for
// standard input and is passed through.
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		if pattern == StdinName {
			result = append(result, pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	return result, nil
}
