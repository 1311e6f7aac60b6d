// Package catalog loads and serves the subsidy catalog: the enumerable set of
// requestable document types used as ground truth for matching. Loaded once,
// read-only afterwards, safe for concurrent reads.
package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Entry is one subsidy definition
type Entry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"` // phrasings notices actually use
}

// Catalog is an ordered, immutable collection of entries
type Catalog struct {
	entries []Entry
	byID    map[string]int
}

// New builds a catalog from already-parsed entries. Identifiers must be
// unique and non-empty.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]int, len(entries))}
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("catalog entry %q: empty id", e.Name)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("duplicate catalog id %q", e.ID)
		}
		c.byID[e.ID] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	if len(c.entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Load reads a catalog CSV with columns id,name,description,examples.
// The examples cell is a ';'-delimited list. Identifiers must be unique.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Parse reads catalog rows from r. The first row is the header.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read catalog header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name", "description", "examples"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("catalog missing column %q", required)
		}
	}

	c := &Catalog{byID: make(map[string]int)}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read catalog line %d: %w", line, err)
		}
		field := func(name string) string {
			i := col[name]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		entry := Entry{
			ID:          field("id"),
			Name:        field("name"),
			Description: field("description"),
		}
		if entry.ID == "" {
			return nil, fmt.Errorf("catalog line %d: empty id", line)
		}
		if _, dup := c.byID[entry.ID]; dup {
			return nil, fmt.Errorf("catalog line %d: duplicate id %q", line, entry.ID)
		}
		for _, ex := range strings.Split(field("examples"), ";") {
			if ex = strings.TrimSpace(ex); ex != "" {
				entry.Examples = append(entry.Examples, ex)
			}
		}

		c.byID[entry.ID] = len(c.entries)
		c.entries = append(c.entries, entry)
	}

	if len(c.entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Entries returns the catalog entries in file order
func (c *Catalog) Entries() []Entry {
	return c.entries
}

// Len returns the number of entries
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ByID returns the entry with the given identifier
func (c *Catalog) ByID(id string) (Entry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Contains reports whether id is a catalog identifier
func (c *Catalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Excerpt returns at most n entries, preserving order. Used to bound the
// payload sent to the semantic validator.
func (c *Catalog) Excerpt(n int) []Entry {
	if n <= 0 || n >= len(c.entries) {
		return c.entries
	}
	return c.entries[:n]
}
