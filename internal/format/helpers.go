package format

import (
	"fmt"
	"sort"
	"strings"
)

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}

// FmtParams renders a parameter map as space-separated "k=v" pairs with
// sorted keys, for compact table cells.
func FmtParams(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, params[k]))
	}
	return strings.Join(parts, " ")
}

// FmtList joins items with commas, truncating the tail beyond max items.
func FmtList(items []string, max int) string {
	if max > 0 && len(items) > max {
		return strings.Join(items[:max], ", ") + fmt.Sprintf(" (+%d more)", len(items)-max)
	}
	return strings.Join(items, ", ")
}
