package main

import (
	"log"
	"net/http"
	"time"

	"github.com/outfieldr/fbref-scraper/pkg/matchio"
	"github.com/outfieldr/fbref-scraper/pkg/web"
)

func main() {

	lastUpdated := time.Now()

	http.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		if err := web.RenderHome(rw, web.BaseContext{}); err != nil {
			log.Println(err)
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}
	})

	http.HandleFunc("/matches.html", func(rw http.ResponseWriter, r *http.Request) {
		ms, err := matchio.LoadFromDir("data")
		if err != nil {
			log.Println(err)
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}

		if err := web.RenderMatches(rw, web.MatchesContext{
			Title:       "Scraped Matches",
			LastUpdated: lastUpdated,
			Matches:     ms,
		}); err != nil {
			log.Println(err)
			rw.WriteHeader(http.StatusInternalServerError)
			return
		}
	})

	log.Fatal(http.ListenAndServe(":8080", nil))
}
