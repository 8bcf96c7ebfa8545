package scraper

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/outfieldr/fbref-scraper/pkg/page"
)

const officialsExpr = `//div[@class="scorebox_meta"]/div[contains(strong, "Officials")]//span`

var (
	officialRegexp = regexp.MustCompile(`([\w\s]+)\((\w+)\)`)
	playerIDRegexp = regexp.MustCompile(`/players/([a-zA-Z0-9]+)`)
	matchPathRegex = regexp.MustCompile(`/matches/([a-zA-Z0-9]+)(?:/([^/]+))?`)
)

// ExtractMatch pulls the match details and the rows of every configured stat
// table out of a fetched match page. Tables whose category carries no
// configured variables are skipped.
func ExtractMatch(p *page.Page, variables map[string][]string) (*Match, error) {
	squads := p.SquadIDs()
	if len(squads) < 2 {
		return nil, fmt.Errorf("expected two squad ids on %q, got %d", p.URL, len(squads))
	}

	tables := page.TableCategories([]*page.Page{p})
	if len(tables) == 0 {
		return nil, page.ErrNoStatsTables
	}

	id, name := matchIdentity(p.URL)
	m := &Match{
		ID:         id,
		Name:       name,
		URL:        p.URL,
		HomeTeamID: squads[0],
		AwayTeamID: squads[1],
		Officials:  extractOfficials(p),
	}

	for _, t := range tables {
		vars := variables[t.Category]
		if len(vars) == 0 {
			continue
		}
		m.Tables = append(m.Tables, StatsTable{
			Category: t.Category,
			Rows:     extractRows(t.Node, vars),
		})
	}
	return m, nil
}

// extractOfficials reads the referee/linesman/VAR entries from the scorebox
// metadata. Each span reads like "Name Surname (Referee)".
func extractOfficials(p *page.Page) map[string]string {
	officials := make(map[string]string)
	for _, span := range p.Find(officialsExpr) {
		m := officialRegexp.FindStringSubmatch(htmlquery.InnerText(span))
		if m == nil {
			continue
		}
		role := "official_" + strings.ToLower(m[2])
		officials[role] = strings.TrimSpace(m[1])
	}
	return officials
}

// extractRows walks the table body row by row so that occasionally missing
// cells don't shift values into the wrong column.
func extractRows(table *html.Node, vars []string) []map[string]string {
	var rows []map[string]string
	for _, tr := range htmlquery.Find(table, "./tbody/tr") {
		row := make(map[string]string)

		if a := htmlquery.FindOne(tr, `./*[@data-stat='player']//a`); a != nil {
			row["player_id"] = htmlquery.SelectAttr(a, "href")
		}

		for _, v := range vars {
			cell := htmlquery.FindOne(tr, fmt.Sprintf("./*[@data-stat='%s']", v))
			if cell == nil {
				continue
			}
			// Some cells prefix extra text (whitespace for subs, the
			// two letter code for nationalities); keep the last chunk.
			row[v] = lastText(cell)

			if strings.Contains(v, "player") {
				if a := htmlquery.FindOne(cell, ".//a"); a != nil {
					if m := playerIDRegexp.FindStringSubmatch(htmlquery.SelectAttr(a, "href")); m != nil {
						row[v+"_id"] = m[1]
					}
				}
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// lastText returns the trimmed content of the last non-blank text node under n.
func lastText(n *html.Node) string {
	var last string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
				last = c.Data
			}
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(last)
}

// matchIdentity derives the match id and a readable name from a match URL,
// e.g. /en/matches/85624e5e/Arsenal-Leeds-United-February-14-2021-Premier-League.
func matchIdentity(rawurl string) (id, name string) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", rawurl
	}
	m := matchPathRegex.FindStringSubmatch(u.Path)
	if m == nil {
		return "", strings.Trim(u.Path, "/")
	}
	id = m[1]
	name = strings.ReplaceAll(m[2], "-", " ")
	if name == "" {
		name = id
	}
	return id, name
}
