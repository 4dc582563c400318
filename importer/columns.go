package importer

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinConfidence is the similarity a header needs to stand in for a missing column.
const MinConfidence = 0.8

// ColumnMatch is a header that may stand in for a column.
type ColumnMatch struct {
	Column     string
	Header     string
	Index      int
	Confidence float64
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', ' ', '-', '.':
			return -1
		}
		return r
	}, s)
}

func confidence(a, b string) float64 {
	a, b = normalizeHeader(a), normalizeHeader(b)
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
}

// findBestColumnMatch ranks the unused headers that resemble column, best first.
func findBestColumnMatch(column string, headers []string, used map[int]bool) []ColumnMatch {
	var matches []ColumnMatch
	for i, h := range headers {
		if used[i] {
			continue
		}
		if c := confidence(column, h); c >= MinConfidence {
			matches = append(matches, ColumnMatch{Column: column, Header: h, Index: i, Confidence: c})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// mapColumns resolves each column to a header index: exact (normalized) matches first,
// then the most similar unused header.
func mapColumns(headers, required, optional []string) (map[string]int, error) {
	mapping := make(map[string]int)
	used := make(map[int]bool)
	columns := append(append([]string(nil), required...), optional...)

	for _, column := range columns {
		for i, h := range headers {
			if !used[i] && normalizeHeader(h) == normalizeHeader(column) {
				mapping[column] = i
				used[i] = true
				break
			}
		}
	}
	for _, column := range columns {
		if _, ok := mapping[column]; ok {
			continue
		}
		if matches := findBestColumnMatch(column, headers, used); len(matches) > 0 {
			mapping[column] = matches[0].Index
			used[matches[0].Index] = true
		}
	}

	var missing []string
	for _, column := range required {
		if _, ok := mapping[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &ImportError{
			Code:    CodeMissingColumns,
			Message: "Coloane lipsa: " + strings.Join(missing, ", "),
			Context: map[string]string{"headers": strings.Join(headers, ",")},
		}
	}
	return mapping, nil
}
