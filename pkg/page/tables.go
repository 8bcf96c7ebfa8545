package page

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

var ErrNoStatsTables = errors.New("no valid stats tables found")

const (
	statsTableExpr = `//table[contains(@id, "stats")]`
	squadLinkExpr  = `//div[@itemprop="performer"]//a`
	headerStatExpr = `./thead/tr[last()]/th`
)

var squadIDRegexp = regexp.MustCompile(`/squads/([a-zA-Z0-9]+)`)

// Table is a stat table found on a match page, labelled with the category
// derived from its id attribute.
type Table struct {
	Category string
	Node     *html.Node
}

// SquadIDs returns the squad ids of the teams playing the match, extracted
// from the scorebox team links. A match page carries exactly two.
func (p *Page) SquadIDs() []string {
	ids := p.AttrRe(squadLinkExpr, "href", squadIDRegexp)

	// The performer divs repeat the squad link; keep first occurrences only.
	var out []string
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// TableCategories lists the stat tables present on the given pages in
// document order. The category label is the table id with the "stats" marker
// and both squad ids stripped out. Returns nil when any page carries no stat
// tables at all.
func TableCategories(pages []*Page) []Table {
	var tables []Table
	for _, p := range pages {
		squads := p.SquadIDs()
		nodes := p.Find(statsTableExpr)
		if len(nodes) == 0 {
			return nil
		}

		for _, n := range nodes {
			category := strings.ReplaceAll(htmlquery.SelectAttr(n, "id"), "stats", "")
			for _, id := range squads {
				category = strings.ReplaceAll(category, id, "")
			}
			tables = append(tables, Table{
				Category: strings.Trim(category, " _"),
				Node:     n,
			})
		}
	}
	return tables
}

// Categories reduces TableCategories to the set of category labels observed.
func Categories(pages []*Page) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range TableCategories(pages) {
		set[t.Category] = struct{}{}
	}
	return set
}

// Variables returns, per category, the data-stat column names of every stat
// table on the given pages. Names are kept in document order and deduplicated
// within a category; a name appearing under several categories is reported
// under each of them, which the reconciliation step depends on.
func Variables(pages []*Page) (map[string][]string, error) {
	tables := TableCategories(pages)
	if len(tables) == 0 {
		return nil, ErrNoStatsTables
	}

	vars := make(map[string][]string)
	for _, t := range tables {
		for _, th := range htmlquery.Find(t.Node, headerStatExpr) {
			v := htmlquery.SelectAttr(th, "data-stat")
			if v == "" {
				continue
			}
			if !slices.Contains(vars[t.Category], v) {
				vars[t.Category] = append(vars[t.Category], v)
			}
		}
	}
	return vars, nil
}
