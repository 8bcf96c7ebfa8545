package web

import (
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/outfieldr/fbref-scraper/pkg/matchio"
)

//go:embed templates
var templatesFs embed.FS

type BaseContext struct {
	PathPrefix string
}

type MatchesContext struct {
	BaseContext
	Title       string
	LastUpdated time.Time
	Matches     []matchio.MatchWithPath
}

func (c MatchesContext) FormattedLastUpdated() string {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		loc = time.UTC
	}
	return c.LastUpdated.In(loc).Format("2006-01-02T15:04:05 MST")
}

func RenderMatches(w io.Writer, c MatchesContext) error {
	t, err := template.ParseFS(templatesFs, "templates/matches.html.tpl")
	if err != nil {
		return err
	}
	t, err = t.ParseFS(templatesFs, "templates/common/*")
	if err != nil {
		return err
	}

	err = t.Execute(w, c)
	if err != nil {
		return err
	}
	return nil
}

func RenderHome(w io.Writer, c BaseContext) error {
	t, err := template.ParseFS(templatesFs, "templates/index.html.tpl")
	if err != nil {
		return err
	}
	t, err = t.ParseFS(templatesFs, "templates/common/*")
	if err != nil {
		return err
	}

	err = t.Execute(w, c)
	if err != nil {
		return err
	}
	return nil
}
