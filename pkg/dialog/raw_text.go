package dialog

import (
	"fmt"
	"sort"
	"strings"
)

// FormatRawFragments renders retrieved source fragments verbatim, followed by
// the 1-indexed pages they came from (de-duplicated, ascending). Fragments
// without page metadata are included in the text but excluded from the page
// listing; if none carry a page, a fallback line is printed instead.
func FormatRawFragments(fragments []Fragment) string {
	if len(fragments) == 0 {
		return "Relevant section not found."
	}

	texts := make([]string, 0, len(fragments))
	seen := make(map[int]struct{})
	var pages []int
	for _, f := range fragments {
		texts = append(texts, f.Text)
		if f.Page > 0 {
			if _, ok := seen[f.Page]; !ok {
				seen[f.Page] = struct{}{}
				pages = append(pages, f.Page)
			}
		}
	}
	sort.Ints(pages)

	pageInfo := "Page info unavailable."
	if len(pages) > 0 {
		parts := make([]string, len(pages))
		for i, p := range pages {
			parts[i] = fmt.Sprintf("%d", p)
		}
		pageInfo = fmt.Sprintf("Found on page(s): %s", strings.Join(parts, ", "))
	}

	return fmt.Sprintf("Relevant text:\n\n---\n%s\n---\n\n%s", strings.Join(texts, "\n\n"), pageInfo)
}
