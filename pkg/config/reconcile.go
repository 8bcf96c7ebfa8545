package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// ErrUnrankedCategories means variables were observed under a category that
// has no priority rank yet. Table discovery has to be rerun and its result
// persisted before variables can be reconciled.
var ErrUnrankedCategories = errors.New("categories have no assigned rank")

// summaryThreshold is the share of known categories a variable must appear in
// (strictly more than) to be pulled into the summary category.
const summaryThreshold = 0.7

// UpdateTables merges the observed category set into the tables section.
//
// When every observed category is already ranked nothing changes and nil is
// returned. Otherwise new categories get a default rank: "summary" sorts
// last (rank = observed category count), "misc" second to last and everything
// else starts at rank 1, for the user to reorder by hand. Existing ranks are
// never touched. Returns the categories added, sorted.
func (c *Config) UpdateTables(observed map[string]struct{}) []string {
	section := c.section(tablesKey)

	existing := make(map[string]bool, len(section))
	for _, item := range section {
		if key, ok := item.Key.(string); ok {
			existing[key] = true
		}
	}

	if len(existing) > 0 {
		subset := true
		for cat := range observed {
			if !existing[cat] {
				subset = false
				break
			}
		}
		if subset {
			return nil
		}
	}

	var added []string
	for cat := range observed {
		if !existing[cat] {
			added = append(added, cat)
		}
	}
	sort.Strings(added)

	for _, cat := range added {
		var rank int
		switch cat {
		case "summary":
			rank = len(observed)
		case "misc":
			rank = len(observed) - 1
		default:
			rank = 1
		}
		section = append(section, yaml.MapItem{Key: cat, Value: rank})
	}
	c.setSection(tablesKey, section)

	return added
}

// UpdateVariables reconciles raw per-category variable observations against
// the ranked category list and replaces the variables section with the
// deduplicated result. Returns the per-category sets of variables added and
// removed relative to the stored mapping; both empty means no change was
// made. Every observed category must already carry a rank.
func (c *Config) UpdateVariables(observed map[string][]string) (added, removed map[string][]string, err error) {
	newMap, err := dedupe(observed, c.Tables())
	if err != nil {
		return nil, nil, err
	}

	existing := c.Variables()
	added = diff(newMap, existing)
	removed = diff(existing, newMap)

	if len(added) > 0 || len(removed) > 0 {
		c.setVariables(newMap)
	}
	return added, removed, nil
}

// dedupe assigns every observed variable to exactly one category. A variable
// present under "summary" and under more than summaryThreshold of all ranked
// categories goes to "summary"; any other duplicate is resolved by
// eliminating its candidate categories from the low-rank end of the priority
// order until one remains.
func dedupe(variables map[string][]string, ranks map[string]int) (map[string][]string, error) {
	var unranked []string
	for cat := range variables {
		if _, ok := ranks[cat]; !ok {
			unranked = append(unranked, cat)
		}
	}
	if len(unranked) > 0 {
		sort.Strings(unranked)
		return nil, fmt.Errorf("%w: %s", ErrUnrankedCategories, strings.Join(unranked, ", "))
	}

	priority := priorityOrder(ranks)

	categories := make([]string, 0, len(variables))
	for cat := range variables {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	// Reverse index: variable → categories it was observed under.
	varCats := make(map[string][]string)
	for _, cat := range categories {
		for _, v := range variables[cat] {
			varCats[v] = append(varCats[v], cat)
		}
	}

	owner := make(map[string]string, len(varCats))
	for v, cats := range varCats {
		if float64(len(cats)) > summaryThreshold*float64(len(ranks)) && slices.Contains(cats, "summary") {
			owner[v] = "summary"
			continue
		}
		owner[v] = selectTopPriority(cats, priority)
	}

	out := make(map[string][]string)
	for cat, vars := range variables {
		for _, v := range vars {
			if owner[v] == cat {
				out[cat] = append(out[cat], v)
			}
		}
	}
	return out, nil
}

// priorityOrder sorts categories by ascending rank. Categories sharing a rank
// keep alphabetical order between them; which of two equally ranked
// categories wins a conflict is deterministic but otherwise unspecified.
func priorityOrder(ranks map[string]int) []string {
	cats := make([]string, 0, len(ranks))
	for cat := range ranks {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	sort.SliceStable(cats, func(i, j int) bool {
		return ranks[cats[i]] < ranks[cats[j]]
	})
	return cats
}

// selectTopPriority narrows candidates down to a single category by
// discarding them in priority order, lowest rank first. With all candidates
// ranked, the survivor is the candidate appearing latest in the priority
// order, i.e. the highest ranked one.
func selectTopPriority(candidates []string, priority []string) string {
	if len(candidates) == 0 {
		return ""
	}
	remaining := slices.Clone(candidates)
	for _, p := range priority {
		if len(remaining) == 1 {
			break
		}
		if i := slices.Index(remaining, p); i >= 0 {
			remaining = slices.Delete(remaining, i, i+1)
		}
	}
	return remaining[0]
}

// diff reports, per category, the variables present in left but not in right.
// A category absent from right contributes all of its variables. Categories
// with nothing to report are omitted.
func diff(left, right map[string][]string) map[string][]string {
	out := make(map[string][]string)
	for cat, values := range left {
		var d []string
		for _, v := range values {
			if !slices.Contains(right[cat], v) {
				d = append(d, v)
			}
		}
		if len(d) > 0 {
			out[cat] = d
		}
	}
	return out
}
