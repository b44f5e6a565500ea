package namecache

import (
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/text/cases"

	"aria/internal/logging"
)

const (
	// DefaultMaxEntries is the forward-map ceiling when none is configured.
	DefaultMaxEntries = 5000

	// fuzzyCutoff is the minimum similarity ratio (0-100) a candidate must
	// reach before a fuzzy match is accepted. Empirically tuned; changing it
	// changes which near-miss names resolve.
	fuzzyCutoff = 85

	keySep       = "||"
	legacyKeySep = "\x00"
)

type key struct {
	kind string
	name string // normalized
}

type entry struct {
	key key
	uri string
}

// Entry is a read-only snapshot row of the forward map.
type Entry struct {
	Kind       string
	Name       string
	Identifier string
}

// Cache is a namespaced name-to-identifier cache with fuzzy lookup, LRU
// eviction, and optional JSON persistence.
type Cache struct {
	path       string
	maxEntries int
	logger     *slog.Logger

	mu      sync.Mutex
	order   *list.List // *entry values, oldest-touched at the front
	index   map[key]*list.Element
	reverse map[string]string // identifier -> original-case name
	dirty   bool
}

// New creates a cache. An empty path disables persistence; the cache still
// works in memory. maxEntries <= 0 selects DefaultMaxEntries. A previously
// persisted file is loaded immediately, tolerating corruption by starting
// empty.
func New(path string, maxEntries int, logger *slog.Logger) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	logger = logging.NewComponentLogger(logger, "namecache")

	c := &Cache{
		path:       path,
		maxEntries: maxEntries,
		logger:     logger,
		order:      list.New(),
		index:      make(map[key]*list.Element),
		reverse:    make(map[string]string),
	}

	if path != "" {
		if err := c.load(); err != nil {
			logger.Warn("failed to load name cache; starting empty",
				logging.Error(err),
				logging.String("path", path))
			c.order = list.New()
			c.index = make(map[key]*list.Element)
			c.reverse = make(map[string]string)
		}
	}

	return c
}

// Add inserts or refreshes a (kind, name) -> identifier mapping, updates the
// reverse index, and evicts the oldest entries if the ceiling is exceeded.
// Empty names or identifiers are ignored.
func (c *Cache) Add(kind, name, identifier string) {
	if name == "" || identifier == "" {
		return
	}
	k := key{kind: kind, name: normalizeName(name)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[k]; ok {
		elem.Value.(*entry).uri = identifier
		c.order.MoveToBack(elem)
	} else {
		c.index[k] = c.order.PushBack(&entry{key: k, uri: identifier})
	}
	c.reverse[identifier] = name
	c.dirty = true
	c.evictLocked()
}

// Resolve maps a (kind, name) pair to an identifier. An exact hit on the
// normalized key refreshes recency and returns immediately; otherwise the
// best fuzzy match among same-kind names wins if it clears the cutoff.
func (c *Cache) Resolve(kind, name string) (string, bool) {
	normalized := normalizeName(name)
	k := key{kind: kind, name: normalized}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[k]; ok {
		c.order.MoveToBack(elem)
		return elem.Value.(*entry).uri, true
	}

	var (
		best      *list.Element
		bestScore int
	)
	for candidate, elem := range c.index {
		if candidate.kind != kind {
			continue
		}
		score := fuzzy.Ratio(normalized, candidate.name)
		if score >= fuzzyCutoff && score > bestScore {
			best = elem
			bestScore = score
		}
	}
	if best == nil {
		return "", false
	}
	c.order.MoveToBack(best)
	return best.Value.(*entry).uri, true
}

// NameForID is the reverse lookup from identifier to the last-known display
// name. It never mutates recency.
func (c *Cache) NameForID(identifier string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	name, ok := c.reverse[identifier]
	return name, ok
}

// Len returns the number of forward entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Entries returns a snapshot of the forward map, oldest-touched first.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]Entry, 0, c.order.Len())
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		entries = append(entries, Entry{Kind: e.key.kind, Name: e.key.name, Identifier: e.uri})
	}
	return entries
}

// Clear drops every entry and marks the cache dirty.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = list.New()
	c.index = make(map[key]*list.Element)
	c.reverse = make(map[string]string)
	c.dirty = true
}

// persistedEntry is one forward mapping in recency order, oldest first.
type persistedEntry struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Identifier string `json:"id"`
}

// persistedCache is the on-disk shape. Entries carries recency order; the
// Cache map is the older flat shape, still accepted on read.
type persistedCache struct {
	Entries []persistedEntry  `json:"entries,omitempty"`
	Cache   map[string]string `json:"cache,omitempty"`
	Reverse map[string]string `json:"reverse"`
}

// Save persists the cache to its path. It is a no-op without a path or when
// nothing changed since the last save.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" || !c.dirty {
		return nil
	}

	record := persistedCache{
		Entries: make([]persistedEntry, 0, c.order.Len()),
		Reverse: make(map[string]string, len(c.reverse)),
	}
	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		e := elem.Value.(*entry)
		record.Entries = append(record.Entries, persistedEntry{
			Kind:       e.key.kind,
			Name:       e.key.name,
			Identifier: e.uri,
		})
	}
	for uri, name := range c.reverse {
		record.Reverse[uri] = name
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	// Guard against a second aria process saving the same file. Lock errors
	// are not fatal; the atomic rename below still keeps the file whole.
	lock := flock.New(c.path + ".lock")
	if locked, err := lock.TryLock(); err == nil && locked {
		defer func() { _ = lock.Unlock() }()
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	c.dirty = false
	return nil
}

// load reads the persisted record. The entries array restores recency order
// directly; files in the older flat-map shape (either key separator) are
// still accepted, with arbitrary recency.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var record persistedCache
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	for _, pe := range record.Entries {
		k := key{kind: pe.Kind, name: pe.Name}
		if _, ok := c.index[k]; ok {
			continue
		}
		c.index[k] = c.order.PushBack(&entry{key: k, uri: pe.Identifier})
	}
	for joined, uri := range record.Cache {
		var kind, name string
		switch {
		case strings.Contains(joined, keySep):
			parts := strings.SplitN(joined, keySep, 2)
			kind, name = parts[0], parts[1]
		case strings.Contains(joined, legacyKeySep):
			parts := strings.SplitN(joined, legacyKeySep, 2)
			kind, name = parts[0], parts[1]
		default:
			continue
		}
		k := key{kind: kind, name: name}
		if _, ok := c.index[k]; ok {
			continue
		}
		c.index[k] = c.order.PushBack(&entry{key: k, uri: uri})
	}
	for uri, name := range record.Reverse {
		c.reverse[uri] = name
	}
	c.evictLocked()

	c.logger.Debug("loaded name cache",
		logging.Int("entry_count", c.order.Len()),
		logging.String("path", c.path))
	return nil
}

// evictLocked removes oldest-touched entries until the ceiling holds,
// dropping each entry's reverse-index counterpart with it.
func (c *Cache) evictLocked() {
	for c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		e := oldest.Value.(*entry)
		c.order.Remove(oldest)
		delete(c.index, e.key)
		delete(c.reverse, e.uri)
	}
}

func normalizeName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}
