// Package content serves the site's markdown blog posts and resources.
// Each file starts with a YAML front matter block between --- lines.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/BradenHooton/portfolio/internal/models"
	"gopkg.in/yaml.v3"
)

// Collections served by the content API
const (
	CollectionBlog      = "blog"
	CollectionResources = "resources"
)

// Collections lists every collection the loader reads
var Collections = []string{CollectionBlog, CollectionResources}

// WordsPerMinute is the reading speed used for reading time estimates
const WordsPerMinute = 200

var (
	ErrNoFrontMatter = errors.New("missing front matter")
	ErrMissingTitle  = errors.New("front matter has no title")
)

var (
	frontMatterOpen  = []byte("---\n")
	frontMatterClose = []byte("\n---")
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04"}

// FrontMatter is the YAML header of a content file
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Category    string   `yaml:"category"`
	Author      string   `yaml:"author"`
	Image       string   `yaml:"image"`
	Draft       bool     `yaml:"draft"`
	Featured    bool     `yaml:"featured"`
}

// Entry is a parsed content file
type Entry struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category,omitempty"`
	Author      string    `json:"author,omitempty"`
	Image       string    `json:"image,omitempty"`
	Featured    bool      `json:"featured"`
	ReadingTime int       `json:"readingTime"` // minutes
	Body        string    `json:"body,omitempty"`

	draft bool
}

// Summary returns the entry without its body, for listings
func (e Entry) Summary() Entry {
	e.Body = ""
	return e
}

// HasTag reports whether the entry carries tag, ignoring case
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// ReadingTime estimates minutes to read body, rounded up
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// ParseDocument splits a content file into front matter and body
func ParseDocument(slug string, data []byte) (Entry, error) {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	rest, ok := bytes.CutPrefix(data, frontMatterOpen)
	if !ok {
		return Entry{}, ErrNoFrontMatter
	}

	header, body, found := bytes.Cut(rest, frontMatterClose)
	if !found {
		return Entry{}, ErrNoFrontMatter
	}
	// Drop the remainder of the closing delimiter line
	if i := bytes.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = nil
	}

	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return Entry{}, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Entry{}, ErrMissingTitle
	}

	date, err := parseDate(fm.Date)
	if err != nil {
		return Entry{}, err
	}

	text := strings.TrimSpace(string(body))
	tags := fm.Tags
	if tags == nil {
		tags = []string{}
	}

	return Entry{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Date:        date,
		Tags:        tags,
		Category:    fm.Category,
		Author:      fm.Author,
		Image:       fm.Image,
		Featured:    fm.Featured,
		ReadingTime: ReadingTime(text),
		Body:        text,
		draft:       fm.Draft,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// Loader holds the parsed content of every collection. Load swaps in a new
// snapshot so readers never see a half-loaded collection.
type Loader struct {
	dir    string
	logger *slog.Logger

	mu          sync.RWMutex
	collections map[string][]Entry
	loadedAt    time.Time
}

// NewLoader creates a loader rooted at dir. Call Load before serving.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{
		dir:         dir,
		logger:      logger,
		collections: make(map[string][]Entry),
	}
}

// Load reads every collection from disk. Files that fail to parse are
// skipped and logged. On a directory read error the previous snapshot is kept.
func (l *Loader) Load() error {
	next := make(map[string][]Entry, len(Collections))
	for _, name := range Collections {
		entries, err := l.readCollection(name)
		if err != nil {
			return err
		}
		next[name] = entries
	}

	l.mu.Lock()
	l.collections = next
	l.loadedAt = time.Now()
	l.mu.Unlock()

	l.logger.Debug("content loaded",
		slog.Int("blog", len(next[CollectionBlog])),
		slog.Int("resources", len(next[CollectionResources])))
	return nil
}

func (l *Loader) readCollection(name string) ([]Entry, error) {
	dir := filepath.Join(l.dir, name)
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read %s content: %w", name, err)
	}

	entries := make([]Entry, 0, len(files))
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".md" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			l.logger.Warn("skipping unreadable content file",
				slog.String("file", f.Name()),
				slog.String("error", err.Error()))
			continue
		}

		entry, err := ParseDocument(strings.TrimSuffix(f.Name(), ".md"), data)
		if err != nil {
			l.logger.Warn("skipping invalid content file",
				slog.String("file", f.Name()),
				slog.String("error", err.Error()))
			continue
		}
		if entry.draft {
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].Slug < entries[j].Slug
	})
	return entries, nil
}

// List returns summaries of a collection, newest first. A non-empty tag
// keeps only entries carrying it.
func (l *Loader) List(collection, tag string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	entries := l.collections[collection]
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if tag != "" && !e.HasTag(tag) {
			continue
		}
		out = append(out, e.Summary())
	}
	return out
}

// Get returns a single entry with its body
func (l *Loader) Get(collection, slug string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.collections[collection] {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%s/%s: %w", collection, slug, models.ErrNotFound)
}

// LoadedAt returns when the current snapshot was loaded
func (l *Loader) LoadedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loadedAt
}
