package reports

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortRomanian sorts items by key with Romanian collation. Collators are not safe for
// concurrent use, so each call builds its own.
func sortRomanian[T any](items []T, key func(T) string, opts ...collate.Option) {
	c := collate.New(language.Romanian, opts...)
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
