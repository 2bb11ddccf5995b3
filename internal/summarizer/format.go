package summarizer

import (
	"sort"
	"strconv"
	"strings"
)

const (
	relevanceFloor = 10
	maxEntries     = 3
)

// rank keeps entries strictly above the relevance floor, sorted by descending relevance
// (ties keep response order), and truncates to maxEntries.
func rank(entries []Entry) []Entry {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Relevance > relevanceFloor {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Relevance > kept[j].Relevance
	})
	if len(kept) > maxEntries {
		kept = kept[:maxEntries]
	}
	return kept
}

// shortLabel keeps the last segment of a hierarchical label ("News>Sports" -> "Sports").
func shortLabel(label string) string {
	if i := strings.LastIndex(label, ">"); i >= 0 {
		label = label[i+1:]
	}
	return strings.TrimSpace(label)
}

// Format renders the fixed summary template. Empty sections are left out.
func Format(categories, concepts []Entry) string {
	var sb strings.Builder
	sb.WriteString("📊 Content Analysis\n\n")

	if len(categories) > 0 {
		sb.WriteString("🏷️ Main Topics:\n")
		for _, c := range categories {
			writeEntry(&sb, c)
		}
	}

	if len(concepts) > 0 {
		sb.WriteString("\n🔑 Key Concepts:\n")
		for _, c := range concepts {
			writeEntry(&sb, c)
		}
	}

	return sb.String()
}

func writeEntry(sb *strings.Builder, e Entry) {
	sb.WriteString("• ")
	sb.WriteString(e.Label)
	sb.WriteString(" (")
	sb.WriteString(strconv.FormatFloat(e.Relevance, 'f', -1, 64))
	sb.WriteString("%)\n")
}
