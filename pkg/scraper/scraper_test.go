package scraper

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/outfieldr/fbref-scraper/pkg/page"
)

var testVariables = map[string][]string{
	"summary": {"player", "nationality", "minutes"},
	"passing": {"player", "passes"},
}

func TestScraperFindsLinkedMatches(t *testing.T) {
	ts := newTestServer(map[string]string{
		"/en/matches/1111aaaa/Arsenal-Leeds-United": matchPageHTML("abc123", "def456", "/en/matches/2222bbbb/Chelsea-Fulham"),
		"/en/matches/2222bbbb/Chelsea-Fulham":       matchPageHTML("ccc111", "ddd222", ""),
	})
	defer ts.Close()

	m := sync.Mutex{}
	var scraped []Match
	s := newTestScraper(3, testVariables, func(match Match) {
		m.Lock()
		scraped = append(scraped, match)
		m.Unlock()
	})

	err := s.Start([]string{ts.URL + "/en/matches/1111aaaa/Arsenal-Leeds-United"})
	require.NoError(t, err)

	require.Len(t, scraped, 2)

	byID := map[string]Match{}
	for _, match := range scraped {
		byID[match.ID] = match
	}

	first, ok := byID["1111aaaa"]
	require.True(t, ok)
	require.Equal(t, "Arsenal Leeds United", first.Name)
	require.Equal(t, "abc123", first.HomeTeamID)
	require.Equal(t, "def456", first.AwayTeamID)
	require.Len(t, first.Tables, 2)

	second, ok := byID["2222bbbb"]
	require.True(t, ok)
	require.Equal(t, "ccc111", second.HomeTeamID)
}

func TestExtractMatch(t *testing.T) {
	p := mustPage(t, matchPageHTML("abc123", "def456", ""))

	match, err := ExtractMatch(p, testVariables)
	require.NoError(t, err)

	require.Equal(t, "abc123", match.HomeTeamID)
	require.Equal(t, "def456", match.AwayTeamID)
	require.Equal(t, map[string]string{
		"official_referee": "John Smith",
		"official_var":     "Ann Jones",
	}, match.Officials)

	require.Len(t, match.Tables, 2)
	summary := match.Tables[0]
	require.Equal(t, "summary", summary.Category)
	require.Len(t, summary.Rows, 2)

	row := summary.Rows[0]
	require.Equal(t, "Bukayo Saka", row["player"])
	require.Equal(t, "saka1234", row["player_id"])
	// nationality cells prefix a lowercase code, only the last chunk counts
	require.Equal(t, "ENG", row["nationality"])
	require.Equal(t, "90", row["minutes"])
}

func TestExtractMatchSkipsUnconfiguredCategories(t *testing.T) {
	p := mustPage(t, matchPageHTML("abc123", "def456", ""))

	match, err := ExtractMatch(p, map[string][]string{"summary": {"player"}})
	require.NoError(t, err)
	require.Len(t, match.Tables, 1)
	require.Equal(t, "summary", match.Tables[0].Category)
}

func TestExtractMatchNoTables(t *testing.T) {
	p := mustPage(t, `<html><body>
		<div itemprop="performer"><a href="/en/squads/abc123/A">A</a></div>
		<div itemprop="performer"><a href="/en/squads/def456/B">B</a></div>
	</body></html>`)

	_, err := ExtractMatch(p, testVariables)
	require.ErrorIs(t, err, page.ErrNoStatsTables)
}

func newTestScraper(threads int, vars map[string][]string, cb MatchPageCallbackFunc) Scraper {
	s := NewScraper("", threads, 10*time.Millisecond, vars, cb)
	s.colly.AllowedDomains = nil
	// keep squad and player links out of the queue, but accept any host
	s.colly.URLFilters = []*regexp.Regexp{regexp.MustCompile(`/en/matches/`)}
	return s
}

func newTestServer(pages map[string]string) *httptest.Server {
	mux := http.NewServeMux()
	for path, content := range pages {
		content := content
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(content))
		})
	}

	return httptest.NewServer(mux)
}

func mustPage(t *testing.T, content string) *page.Page {
	t.Helper()
	p, err := page.New("https://fbref.com/en/matches/1111aaaa/Arsenal-Leeds-United", strings.NewReader(content))
	require.NoError(t, err)
	return p
}

func matchPageHTML(home, away, nextMatchLink string) string {
	link := ""
	if nextMatchLink != "" {
		link = fmt.Sprintf(`<a href="%s">Next match</a>`, nextMatchLink)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
	<body>
		<div itemprop="performer"><a href="/en/squads/%[1]s/Home-Stats">Home</a></div>
		<div itemprop="performer"><a href="/en/squads/%[2]s/Away-Stats">Away</a></div>
		<div class="scorebox_meta">
			<div>
				<strong>Officials</strong>
				<span>John Smith (Referee)</span>
				<span>Ann Jones (VAR)</span>
			</div>
		</div>
		%[3]s
		%[4]s
		%[5]s
	</body>
</html>
`,
		home, away, link,
		summaryTable("stats_"+home+"_summary"),
		passingTable("stats_"+home+"_passing"),
	)
}

func summaryTable(id string) string {
	return fmt.Sprintf(`<table id=%q>
	<thead>
		<tr><th colspan="3">Performance</th></tr>
		<tr><th data-stat="player">Player</th><th data-stat="nationality">Nation</th><th data-stat="minutes">Min</th></tr>
	</thead>
	<tbody>
		<tr>
			<td data-stat="player"><a href="/en/players/saka1234/Bukayo-Saka">Bukayo Saka</a></td>
			<td data-stat="nationality"><span>eng</span> ENG</td>
			<td data-stat="minutes">90</td>
		</tr>
		<tr>
			<td data-stat="player"><a href="/en/players/rice5678/Declan-Rice">Declan Rice</a></td>
			<td data-stat="nationality"><span>eng</span> ENG</td>
			<td data-stat="minutes">85</td>
		</tr>
	</tbody>
</table>`, id)
}

func passingTable(id string) string {
	return fmt.Sprintf(`<table id=%q>
	<thead>
		<tr><th colspan="2">Passing</th></tr>
		<tr><th data-stat="player">Player</th><th data-stat="passes">Passes</th></tr>
	</thead>
	<tbody>
		<tr>
			<td data-stat="player"><a href="/en/players/saka1234/Bukayo-Saka">Bukayo Saka</a></td>
			<td data-stat="passes">34</td>
		</tr>
	</tbody>
</table>`, id)
}
