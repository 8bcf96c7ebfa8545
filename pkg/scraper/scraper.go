package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/queue"

	"github.com/outfieldr/fbref-scraper/pkg/page"
)

const maxNumRetries int = 5

// DefaultDelay is the minimum wait between requests. FBref bans clients that
// request much faster than this.
const DefaultDelay = 3 * time.Second

var matchURLRegex = regexp.MustCompile(`https://fbref\.com/en/matches/[a-zA-Z0-9]+/.*`)

// NewScraper builds a collector restricted to FBref match pages. variables is
// the configured category → variable names mapping; only configured
// categories are extracted from each page. cacheDir can be empty to disable
// caching.
func NewScraper(cacheDir string, threads int, delay time.Duration, variables map[string][]string, callback MatchPageCallbackFunc) Scraper {

	options := []colly.CollectorOption{
		colly.AllowedDomains("fbref.com"),
		colly.URLFilters(matchURLRegex),
		colly.UserAgent("Mozilla/5.0 (Windows NT x.y; Win64; x64; rv:10.0) Gecko/20100101 Firefox/10.0"),
	}

	if cacheDir != "" {
		options = append(options, colly.CacheDir(cacheDir))
	}

	// StackQueueStorage Init can't fail
	q, _ := queue.New(threads, &StackQueueStorage{})

	s := Scraper{
		colly:       colly.NewCollector(options...),
		q:           q,
		variables:   variables,
		mutex:       &sync.Mutex{},
		urlBackoffs: make(map[string]int),
	}

	// somehow cookies are causing weird concurrency issues where the wrong response body gets used
	s.colly.DisableCookies()

	s.colly.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: threads,
		Delay:       delay,
		RandomDelay: delay / 3,
	})

	s.colly.OnError(func(r *colly.Response, err error) {
		// exponential backoff
		s.mutex.Lock()
		s.urlBackoffs[r.Request.URL.String()]++
		numRetries := s.urlBackoffs[r.Request.URL.String()]
		s.mutex.Unlock()

		if numRetries > maxNumRetries {
			log.Fatalf("Max retries (%d) exceeded for URL %q\n", maxNumRetries, r.Request.URL.String())
			return
		}

		duration := time.Duration(math.Pow(2, float64(numRetries))) * time.Second
		fmt.Fprintf(os.Stderr, "ERROR: Request %q [%d] failed, retrying after %.0f s: %v\n", r.Request.URL.String(), r.StatusCode, duration.Seconds(), err)
		time.Sleep(duration)
		if err := r.Request.Retry(); err != nil {
			fmt.Fprintln(os.Stderr, "ERROR while retrying:", err)
		}
	})

	s.colly.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		err := s.visit(link)
		if err != nil && !(errors.Is(err, colly.ErrAlreadyVisited) || errors.Is(err, colly.ErrNoURLFiltersMatch) || errors.Is(err, colly.ErrMissingURL)) {
			fmt.Fprintln(os.Stderr, "ERROR", err, link)
		}
	})

	s.colly.OnResponse(func(r *colly.Response) {
		p, err := page.New(r.Request.URL.String(), bytes.NewReader(r.Body))
		if err != nil {
			slog.Warn("parse match page", "url", r.Request.URL, "err", err)
			return
		}

		m, err := ExtractMatch(p, s.variables)
		if err != nil {
			slog.Warn("skipping page", "url", r.Request.URL, "err", err)
			return
		}

		fmt.Println("Found match:", m.Name, m.URL)

		callback(*m)
	})

	s.colly.OnRequest(func(r *colly.Request) {
		fmt.Println("Visiting", r.URL.String())
	})

	return s
}

func (s Scraper) Start(startURLs []string) error {
	for _, u := range startURLs {
		if err := s.visit(u); err != nil {
			return err
		}
	}

	if err := s.q.Run(s.colly); err != nil {
		return err
	}

	s.colly.Wait()

	return nil
}

func (s Scraper) visit(url string) error {
	if visited, err := s.colly.HasVisited(url); err != nil {
		return err
	} else if visited {
		return colly.ErrAlreadyVisited
	}

	if len(s.colly.URLFilters) == 0 {
		return s.q.AddURL(url)
	}
	for _, f := range s.colly.URLFilters {
		if f.MatchString(url) {
			return s.q.AddURL(url)
		}
	}
	return colly.ErrNoURLFiltersMatch
}
