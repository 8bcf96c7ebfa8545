package main

import (
	"errors"
	"flag"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/outfieldr/fbref-scraper/pkg/matchio"
	"github.com/outfieldr/fbref-scraper/pkg/web"
)

func main() {
	dataDirNameArg := flag.String("data-dir", "./data", "directory that contains scraped match data files")
	ouputDirArg := flag.String("output-dir", "docs", "directory to write rendered HTML content to")
	pagePathPrefixArg := flag.String("path-prefix", "", "prefix page link URLs (in case pages are hosted at a subpath); should start with '/'")

	flag.Parse()

	if err := os.MkdirAll(*ouputDirArg, os.ModeDir|0775); err != nil {
		log.Fatal(err)
	}

	// Home page
	err := renderToFile(*ouputDirArg, "index.html", func(w io.Writer) error {
		return web.RenderHome(w, web.BaseContext{PathPrefix: *pagePathPrefixArg})
	})
	if err != nil {
		log.Fatal(err)
	}

	ms, err := matchio.LoadFromDir(*dataDirNameArg)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("WARNING: data dir %q does not exist, assuming no matches...\n", *dataDirNameArg)
	} else if err != nil {
		log.Fatal(err)
	}

	err = renderToFile(*ouputDirArg, "matches.html", func(w io.Writer) error {
		c := web.MatchesContext{
			BaseContext: web.BaseContext{PathPrefix: *pagePathPrefixArg},
			Title:       "Scraped Matches",
			LastUpdated: time.Now(),
			Matches:     ms,
		}
		return web.RenderMatches(w, c)
	})
	if err != nil {
		log.Fatal(err)
	}
}

func renderToFile(dir string, filename string, renderFunc func(w io.Writer) error) error {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()

	if err := renderFunc(f); err != nil {
		return err
	}
	return nil
}
