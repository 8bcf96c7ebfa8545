// Package page fetches FBref match pages and extracts the stat tables and
// column names present on them.
package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"
)

var client = resty.New().
	SetRetryCount(3).
	SetRetryWaitTime(2 * time.Second).
	SetHeader("User-Agent", "Mozilla/5.0 (Windows NT x.y; Win64; x64; rv:10.0) Gecko/20100101 Firefox/10.0")

// Page is a fetched and parsed HTML document, queryable by XPath.
type Page struct {
	URL string

	doc *html.Node
}

func New(url string, r io.Reader) (*Page, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", url, err)
	}
	return &Page{URL: url, doc: doc}, nil
}

func Fetch(ctx context.Context, url string) (*Page, error) {
	slog.Debug("fetching page", "url", url)

	res, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", url, err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch %q: unexpected status %s", url, res.Status())
	}
	return New(url, bytes.NewReader(res.Body()))
}

// FetchAll fetches every URL concurrently. A single failed page fails the
// whole batch; observations from partially fetched batches are never returned.
func FetchAll(ctx context.Context, urls []string) ([]*Page, error) {
	pages := make([]*Page, len(urls))
	g, ctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			p, err := Fetch(ctx, u)
			if err != nil {
				return err
			}
			pages[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// Find returns all nodes matching the XPath expression.
func (p *Page) Find(expr string) []*html.Node {
	return htmlquery.Find(p.doc, expr)
}

// AttrRe returns the named attribute of every node matched by expr, filtered
// through re: values that don't match are dropped, matching values are
// replaced by the last capture group.
func (p *Page) AttrRe(expr string, attr string, re *regexp.Regexp) []string {
	var out []string
	for _, n := range htmlquery.Find(p.doc, expr) {
		if m := re.FindStringSubmatch(htmlquery.SelectAttr(n, attr)); m != nil {
			out = append(out, m[len(m)-1])
		}
	}
	return out
}
