package matchio

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/outfieldr/fbref-scraper/pkg/scraper"
)

type MatchWithPath struct {
	scraper.Match
	Path string
}

// LoadFromDir reads every match JSON file under dir, recursively.
func LoadFromDir(dir string) ([]MatchWithPath, error) {
	var ms []MatchWithPath
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		dec := json.NewDecoder(f)
		var m scraper.Match
		if err := dec.Decode(&m); err != nil {
			return err
		}
		ms = append(ms, MatchWithPath{Match: m, Path: path})
		return nil
	})

	if err != nil {
		return ms, err
	}
	return ms, nil
}
