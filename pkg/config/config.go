// Package config maintains the scraper configuration file: a priority rank
// per stat table category and the list of variables each category owns.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"

	"github.com/goccy/go-yaml"
)

const (
	tablesKey    = "tables"
	variablesKey = "variables"
)

// Config is the in-memory form of the configuration file. The underlying
// document model keeps user comments and key order intact across a load/save
// cycle, so only the entries touched by an update actually change on disk.
type Config struct {
	path     string
	doc      yaml.MapSlice
	comments yaml.CommentMap
}

// Load reads the configuration at path. A missing file is not an error; it
// yields an empty configuration that will create the file on first Save.
func Load(path string) (*Config, error) {
	c := &Config{path: path, comments: yaml.CommentMap{}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("config file not found, starting empty", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var raw interface{}
	if err := yaml.UnmarshalWithOptions(data, &raw, yaml.UseOrderedMap(), yaml.CommentToMap(c.comments)); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if doc, ok := raw.(yaml.MapSlice); ok {
		c.doc = doc
	}
	return c, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	data, err := yaml.MarshalWithOptions(c.doc,
		yaml.Indent(2),
		yaml.IndentSequence(false),
		yaml.WithComment(c.comments),
	)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("write config %q: %w", c.path, err)
	}
	return nil
}

// Tables returns the category → priority rank mapping.
func (c *Config) Tables() map[string]int {
	ranks := make(map[string]int)
	for _, item := range c.section(tablesKey) {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		if rank, ok := asInt(item.Value); ok {
			ranks[key] = rank
		}
	}
	return ranks
}

// Variables returns the category → owned variables mapping.
func (c *Config) Variables() map[string][]string {
	vars := make(map[string][]string)
	for _, item := range c.section(variablesKey) {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		values, ok := item.Value.([]interface{})
		if !ok {
			continue
		}
		for _, v := range values {
			if s, ok := v.(string); ok {
				vars[key] = append(vars[key], s)
			}
		}
	}
	return vars
}

func (c *Config) section(name string) yaml.MapSlice {
	for _, item := range c.doc {
		if key, ok := item.Key.(string); ok && key == name {
			if m, ok := item.Value.(yaml.MapSlice); ok {
				return m
			}
		}
	}
	return nil
}

func (c *Config) setSection(name string, value yaml.MapSlice) {
	for i, item := range c.doc {
		if key, ok := item.Key.(string); ok && key == name {
			c.doc[i].Value = value
			return
		}
	}
	c.doc = append(c.doc, yaml.MapItem{Key: name, Value: value})
}

// setVariables replaces the variables section, keeping the file's existing
// category order and appending categories new to the file in sorted order.
func (c *Config) setVariables(vars map[string][]string) {
	var section yaml.MapSlice
	seen := make(map[string]bool)

	for _, item := range c.section(variablesKey) {
		key, ok := item.Key.(string)
		if !ok {
			continue
		}
		if values, ok := vars[key]; ok {
			section = append(section, yaml.MapItem{Key: key, Value: values})
			seen[key] = true
		}
	}

	var added []string
	for cat := range vars {
		if !seen[cat] {
			added = append(added, cat)
		}
	}
	sort.Strings(added)
	for _, cat := range added {
		section = append(section, yaml.MapItem{Key: cat, Value: vars[cat]})
	}

	c.setSection(variablesKey, section)
}

// YAML integers decode to different widths depending on sign and size.
func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
