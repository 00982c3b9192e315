// Package strings provides string slice helpers.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved and
// comparison is case-sensitive.
//
//	DedupeAndTrim([]string{"  Default ", "Efficiency", "Default", ""})
//	// []string{"Default", "Efficiency"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// Without returns a copy of values with every occurrence of v removed.
func Without(values []string, v string) []string {
	return slices.DeleteFunc(slices.Clone(values), func(s string) bool { return s == v })
}

// SplitList splits a comma separated list, trimming and deduplicating.
// Used for env values like "Efficiency, Reliability".
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(s, ","))
}
