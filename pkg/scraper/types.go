package scraper

import (
	"sync"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/queue"
)

type Scraper struct {
	colly *colly.Collector
	q     *queue.Queue

	startURLs []string
	variables map[string][]string

	mutex       *sync.Mutex
	urlBackoffs map[string]int
}

// Match is the scraped content of a single FBref match page.
type Match struct {
	ID   string
	Name string
	URL  string

	HomeTeamID string
	AwayTeamID string

	// Officials maps a role key ("official_referee", "official_var", ...)
	// to the official's name.
	Officials map[string]string

	Tables []StatsTable
}

// StatsTable holds one stat table's rows, keyed by the configured variable
// names of the table's category.
type StatsTable struct {
	Category string
	Rows     []map[string]string
}

type MatchPageCallbackFunc func(m Match)
