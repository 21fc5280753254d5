// Package taxonomy holds the static request-type registry: type and
// subcategory definitions, per-field extraction patterns, and the routing
// table. Tables are embedded, loaded once at startup, and read-only after
// Load returns.
package taxonomy

import (
	_ "embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// TeamUnassigned is the routing result for unknown or sentinel request types.
const TeamUnassigned = "Unassigned"

//go:embed tables.yaml
var tablesYAML []byte

// Subcategory is a named refinement of a request type.
type Subcategory struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// RequestType defines one top-level request type: its classification
// context, ordered subcategories (empty when terminal), and the fields
// expected to be extractable from matching text.
type RequestType struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Subcategories []Subcategory `yaml:"subcategories"`
	Fields        []string      `yaml:"fields"`
}

// HasSubcategories reports whether the type requires a second-stage ranking.
func (rt RequestType) HasSubcategories() bool {
	return len(rt.Subcategories) > 0
}

// Subcategory returns the subcategory definition with the given name.
func (rt RequestType) Subcategory(name string) (Subcategory, bool) {
	for _, sub := range rt.Subcategories {
		if sub.Name == name {
			return sub, true
		}
	}
	return Subcategory{}, false
}

type fieldPatterns struct {
	Field    string   `yaml:"field"`
	Patterns []string `yaml:"patterns"`
}

type tables struct {
	Types    []RequestType     `yaml:"types"`
	Patterns []fieldPatterns   `yaml:"patterns"`
	Routing  map[string]string `yaml:"routing"`
}

// Index is the loaded, validated registry. Safe for concurrent reads.
type Index struct {
	types    []RequestType
	byName   map[string]RequestType
	patterns map[string][]*regexp.Regexp
	routing  map[string]string
}

// Load parses the embedded tables, compiles all extraction patterns
// case-insensitively, and validates the registry. Any violation is a
// startup configuration error.
func Load() (*Index, error) {
	var t tables
	if err := yaml.Unmarshal(tablesYAML, &t); err != nil {
		return nil, fmt.Errorf("%w: parse tables: %w", ErrInvalidTables, err)
	}

	ix := &Index{
		types:    t.Types,
		byName:   make(map[string]RequestType, len(t.Types)),
		patterns: make(map[string][]*regexp.Regexp, len(t.Patterns)),
		routing:  t.Routing,
	}

	for _, fp := range t.Patterns {
		if len(fp.Patterns) == 0 {
			return nil, fmt.Errorf("%w: field %q has no patterns", ErrInvalidTables, fp.Field)
		}
		if _, dup := ix.patterns[fp.Field]; dup {
			return nil, fmt.Errorf("%w: duplicate pattern entry for field %q", ErrInvalidTables, fp.Field)
		}
		compiled := make([]*regexp.Regexp, 0, len(fp.Patterns))
		for _, p := range fp.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("%w: field %q pattern %q: %w", ErrInvalidTables, fp.Field, p, err)
			}
			if re.NumSubexp() != 1 {
				return nil, fmt.Errorf(
					"%w: field %q pattern %q must capture exactly one group, has %d",
					ErrInvalidTables, fp.Field, p, re.NumSubexp(),
				)
			}
			compiled = append(compiled, re)
		}
		ix.patterns[fp.Field] = compiled
	}

	if err := ix.validate(); err != nil {
		return nil, err
	}

	return ix, nil
}

func (ix *Index) validate() error {
	if len(ix.types) == 0 {
		return fmt.Errorf("%w: no request types defined", ErrInvalidTables)
	}

	for _, rt := range ix.types {
		if rt.Name == "" {
			return fmt.Errorf("%w: request type with empty name", ErrInvalidTables)
		}
		if _, dup := ix.byName[rt.Name]; dup {
			return fmt.Errorf("%w: duplicate request type %q", ErrInvalidTables, rt.Name)
		}
		ix.byName[rt.Name] = rt

		seen := make(map[string]bool, len(rt.Subcategories))
		for _, sub := range rt.Subcategories {
			if sub.Name == "" {
				return fmt.Errorf("%w: %q has a subcategory with empty name", ErrInvalidTables, rt.Name)
			}
			if seen[sub.Name] {
				return fmt.Errorf("%w: %q has duplicate subcategory %q", ErrInvalidTables, rt.Name, sub.Name)
			}
			seen[sub.Name] = true
		}

		for _, field := range rt.Fields {
			if len(ix.patterns[field]) == 0 {
				return fmt.Errorf("%w: %q references field %q with no patterns", ErrInvalidTables, rt.Name, field)
			}
		}
	}

	for name := range ix.routing {
		if _, ok := ix.byName[name]; !ok {
			return fmt.Errorf("%w: routing entry %q is not a request type", ErrInvalidTables, name)
		}
	}

	return nil
}

// Types returns all request types in declaration order.
func (ix *Index) Types() []RequestType {
	return ix.types
}

// Type returns the request type definition with the given name.
func (ix *Index) Type(name string) (RequestType, bool) {
	rt, ok := ix.byName[name]
	return rt, ok
}

// Patterns returns the compiled extraction patterns for a field, in
// declaration order. Unknown fields return nil.
func (ix *Index) Patterns(field string) []*regexp.Regexp {
	return ix.patterns[field]
}

// Route maps a finalized request type to its handling team. Total: unknown
// and sentinel types map to TeamUnassigned.
func (ix *Index) Route(requestType string) string {
	if team, ok := ix.routing[requestType]; ok {
		return team
	}
	return TeamUnassigned
}
