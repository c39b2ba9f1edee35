package timeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DocumentVersion is written to every timeline file.
const DocumentVersion = "1.0"

// Document is the on-disk form of a set of timeline overrides.
type Document struct {
	Version   string        `yaml:"version"`
	Timelines []TimelineDoc `yaml:"timelines"`
}

// TimelineDoc is one timeline as stored in YAML.
type TimelineDoc struct {
	Name   string  `yaml:"name"`
	Phases []Phase `yaml:"phases"`
	Motion *Motion `yaml:"motion,omitempty"`
}

// NewDocument captures the given timelines.
func NewDocument(tls ...*Timeline) *Document {
	doc := &Document{Version: DocumentVersion}
	for _, tl := range tls {
		td := TimelineDoc{Name: tl.Name(), Phases: tl.Phases()}
		if m := tl.Motion(); !m.IsZero() {
			td.Motion = &m
		}
		doc.Timelines = append(doc.Timelines, td)
	}
	return doc
}

// Build validates every timeline in the document.
func (d *Document) Build() (map[string]*Timeline, error) {
	out := make(map[string]*Timeline, len(d.Timelines))
	for _, td := range d.Timelines {
		if _, dup := out[td.Name]; dup {
			return nil, invalidf(td.Name, "declared twice")
		}
		tl, err := New(td.Name, td.Phases...)
		if err != nil {
			return nil, err
		}
		if td.Motion != nil {
			if tl, err = tl.WithMotion(*td.Motion); err != nil {
				return nil, err
			}
		}
		out[td.Name] = tl
	}
	return out, nil
}

// WriteFile writes a document to a YAML file.
func WriteFile(doc *Document, path string) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode timelines: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a document from a YAML file.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

// Load reads and validates a timeline file.
func Load(path string) (map[string]*Timeline, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	tls, err := doc.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tls, nil
}

// GeneratePath creates a timestamped timeline filename inside dir.
func GeneratePath(dir string) string {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return filepath.Join(dir, fmt.Sprintf("timeline_%s.yaml", timestamp))
}

// FindLatest finds the most recently modified timeline file in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read timelines directory: %w", err)
	}

	type candidate struct {
		path string
		mod  time.Time
	}
	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{filepath.Join(dir, entry.Name()), info.ModTime()})
	}

	if len(files) == 0 {
		return "", fmt.Errorf("no timeline files found in %s", dir)
	}

	// Newest first
	sort.Slice(files, func(i, j int) bool {
		return files[i].mod.After(files[j].mod)
	})

	return files[0].path, nil
}
