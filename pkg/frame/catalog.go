package frame

import (
	"sort"
	"sync"

	"github.com/bisegni/jframe/pkg/perrors"
)

// Catalog manages a collection of named tables
type Catalog struct {
	tables map[string]*Table
	mu     sync.RWMutex
}

// NewCatalog creates a new empty catalog
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]*Table),
	}
}

// RegisterTable adds a table to the catalog, replacing any table with the same name
func (c *Catalog) RegisterTable(name string, t *Table) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tables[name] = t
}

// GetTable retrieves a table by name
func (c *Catalog) GetTable(name string) (*Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	if !ok {
		return nil, perrors.NewInvalidTableError("table '" + name + "' not found")
	}
	return t, nil
}

// TableNames lists the registered names in sorted order
func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
