package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	cli "github.com/jawher/mow.cli"
	"github.com/kennygrant/sanitize"

	"github.com/outfieldr/fbref-scraper/pkg/config"
	"github.com/outfieldr/fbref-scraper/pkg/scraper"
)

func main() {
	app := cli.App("scraper", "Scrape FBref match pages into JSON data files")
	app.Spec = "[--dir] [--cache] [--config] [--threads] [--overwrite] URL..."

	dirNameArg := app.StringOpt("dir", "./data", "directory in which to write scraped data files")
	cacheDirArg := app.StringOpt("cache", "", "cache directory")
	cfgPathArg := app.StringOpt("config", "config.yml", "path to the scraper config file")
	threadsArg := app.IntOpt("threads", 2, "number of parallel fetches")
	overwriteArg := app.BoolOpt("overwrite", false, "when false, a new directory is created within the data dir named as the current date and time; otherwise the data dir is cleaned and replaced.")
	urlsArg := app.StringsArg("URL", nil, "FBref match URLs to start scraping from")

	app.Action = func() {
		cfg, err := config.Load(*cfgPathArg)
		if err != nil {
			log.Fatal(err)
		}
		variables := cfg.Variables()
		if len(variables) == 0 {
			log.Fatalf("no variables configured in %q, run configure first", *cfgPathArg)
		}

		dirname := *dirNameArg
		if !*overwriteArg {
			runDate := time.Now()
			dirname = filepath.Join(dirname, runDate.Format("2006-01-02T15-04-05Z-0700"))
		}

		if *overwriteArg {
			if err := os.RemoveAll(dirname); err != nil {
				log.Fatal(err)
			}
		}

		if err := os.MkdirAll(dirname, os.ModeDir|0755); err != nil {
			log.Fatal(err)
		}

		s := scraper.NewScraper(*cacheDirArg, *threadsArg, scraper.DefaultDelay, variables, func(m scraper.Match) {
			name := sanitize.BaseName(m.Name)
			if name == "" {
				name = m.ID
			}

			writeMatchJSON(filepath.Join(dirname, name+".json"), m)
			writeMatchMarkdown(filepath.Join(dirname, name+".md"), m)
		})

		if err := s.Start(*urlsArg); err != nil {
			log.Fatal(err)
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func writeMatchJSON(path string, m scraper.Match) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(m); err != nil {
		log.Fatal(err)
	}
}

func writeMatchMarkdown(path string, m scraper.Match) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := markdownTemplate.Execute(f, m); err != nil {
		log.Fatal(err)
	}
}
