package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Frequency group boundaries: components appearing at least this often
// site-wide land in the named group. Singletons are not reusable and are
// excluded from grouping entirely.
const (
	highFrequencyFloor   = 5
	mediumFrequencyFloor = 3
)

const topComponentLimit = 10

// componentSignature identifies a component across pages: tag, sorted
// classes, and sorted non-identifying attributes.
func componentSignature(c types.Component) string {
	classes := append([]string(nil), c.Classes...)
	sort.Strings(classes)

	attrs := make([]string, 0, len(c.Attributes))
	for k, v := range c.Attributes {
		attrs = append(attrs, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(attrs)

	return strings.Join([]string{c.Tag, strings.Join(classes, "|"), strings.Join(attrs, "|")}, "::")
}

// analyzeComponents aggregates component usage across the page set and
// groups reusable components by site-wide frequency.
func analyzeComponents(pages []*types.Page) ComponentReport {
	frequency := make(map[string]int)
	var all []ComponentUsage
	var sigs []string
	byPageType := make(map[string][]ComponentUsage)

	for _, page := range pages {
		pageType := page.Metadata.PageType
		if pageType == "" {
			pageType = "unknown"
		}
		for _, c := range page.Components {
			sig := componentSignature(c)
			frequency[sig]++
			usage := ComponentUsage{
				Selector: c.Selector,
				Tag:      c.Tag,
				Category: c.Category,
				Classes:  c.Classes,
				PageURL:  page.URL,
				PageType: pageType,
			}
			all = append(all, usage)
			sigs = append(sigs, sig)
			byPageType[pageType] = append(byPageType[pageType], usage)
		}
	}

	// Second pass: final frequencies are only known once every page has
	// been counted.
	groups := map[string][]ComponentUsage{}
	reusable := 0
	for i := range all {
		freq := frequency[sigs[i]]
		all[i].Frequency = freq
		if freq <= 1 {
			continue
		}
		reusable++
		switch {
		case freq >= highFrequencyFloor:
			groups[PriorityHigh] = append(groups[PriorityHigh], all[i])
		case freq >= mediumFrequencyFloor:
			groups[PriorityMedium] = append(groups[PriorityMedium], all[i])
		default:
			groups[PriorityLow] = append(groups[PriorityLow], all[i])
		}
	}

	return ComponentReport{
		TotalComponents:    len(all),
		UniqueComponents:   len(frequency),
		ReusableComponents: reusable,
		FrequencyGroups:    groups,
		TopComponents:      topComponents(frequency, topComponentLimit),
		ByPageType:         byPageType,
	}
}

// topComponents returns the n most frequent component signatures in
// descending order, ties broken lexicographically.
func topComponents(frequency map[string]int, n int) []ComponentCount {
	counts := make([]ComponentCount, 0, len(frequency))
	for sig, count := range frequency {
		counts = append(counts, ComponentCount{Signature: sig, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Signature < counts[j].Signature
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
