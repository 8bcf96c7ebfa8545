package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	cli "github.com/jawher/mow.cli"

	"github.com/outfieldr/fbref-scraper/pkg/config"
	"github.com/outfieldr/fbref-scraper/pkg/page"
)

func main() {
	app := cli.App("configure", "Discover FBref stat tables and reconcile the scraper config")

	cfgPath := app.StringOpt("c config", "", "path to the config file (default: config.user.yml if present, else config.yml)")

	app.Action = func() {
		path := *cfgPath
		if path == "" {
			path = "config.yml"
			// overwrite file for gitignore
			if _, err := os.Stat("config.user.yml"); err == nil {
				path = "config.user.yml"
			}
		}

		cfg, err := config.Load(path)
		if err != nil {
			log.Fatal(err)
		}

		stdin := bufio.NewReader(os.Stdin)

		fmt.Println(
			"Provide FBref match URL(s) to scan for available variables. " +
				"Variables not in at least one of these pages will be ignored by the scraper.\n" +
				"A recent match from the Top 5 European Leagues/UEFA Champions League " +
				"should contain all the possible variables.")
		urls := promptURLs(stdin)

		pages, err := page.FetchAll(context.Background(), urls)
		if err != nil {
			log.Fatal(err)
		}

		// Check types of stats tables
		categories := page.Categories(pages)
		if len(categories) == 0 {
			log.Fatal(page.ErrNoStatsTables)
		}

		if added := cfg.UpdateTables(categories); len(added) > 0 {
			fmt.Printf("New tables added to config: %v\n", added)

			// Ask before saving changes
			if !confirm(stdin, "Save changes (Y/N)? ") {
				fmt.Println("Exiting without saving changes.")
				return
			}
			fmt.Printf("Saving changes. Update priorities in %s and rerun.\n", path)
			if err := cfg.Save(); err != nil {
				log.Fatal(err)
			}
			return
		}
		fmt.Println("No changes to table priorities.")

		// Check variables within stat tables
		observed, err := page.Variables(pages)
		if err != nil {
			log.Fatal(err)
		}
		added, removed, err := cfg.UpdateVariables(observed)
		if err != nil {
			log.Fatal(err)
		}
		if len(added) == 0 && len(removed) == 0 {
			fmt.Println("No changes to variables.")
			return
		}

		fmt.Printf("Variables added: %v\n", added)
		fmt.Printf("Variables removed: %v\n", removed)

		if !confirm(stdin, "Save changes (Y/N)? ") {
			fmt.Println("Exiting without saving changes.")
			return
		}
		fmt.Println("Saving changes.")
		if err := cfg.Save(); err != nil {
			log.Fatal(err)
		}
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func promptURLs(stdin *bufio.Reader) []string {
	fmt.Print("Reference URL(s): ")
	line, err := stdin.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}

	var urls []string
	for _, u := range strings.Split(line, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		log.Fatal("no URLs given")
	}
	return urls
}

func confirm(stdin *bufio.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return false
	}
	choice := strings.TrimSpace(line)
	return choice == "Y" || choice == "y"
}
