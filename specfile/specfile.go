// Package specfile loads a pagination specification from YAML.
//
//	limit: 10
//	max_limit: 100
//	lookahead: true
//	encoding: url
//	columns:
//	  - name: score
//	    public: public_score
//	    type: int
//	  - name: id
//	    public: public_id
//	    type: int
//	sort:
//	  - column: score
//	    direction: desc
//	  - column: id
package specfile

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	cursorpagination "github.com/CatLabInteractive/cursor-pagination"
)

// Definition mirrors the YAML document.
type Definition struct {
	Limit     int      `yaml:"limit"`
	MaxLimit  int      `yaml:"max_limit"`
	Lookahead bool     `yaml:"lookahead"`
	Encoding  string   `yaml:"encoding"`
	Columns   []Column `yaml:"columns"`
	Sort      []Sort   `yaml:"sort"`
}

// Column registers one sortable column.
type Column struct {
	Name   string `yaml:"name"`
	Public string `yaml:"public"`
	// Type selects the converter for cursor values: int, float, string, bool,
	// time or uuid. Empty means values are used as decoded.
	Type string `yaml:"type"`
	// Layout is the time layout for Type "time".
	Layout string `yaml:"layout"`
}

// Sort is one entry of the sort specification. Direction defaults to asc.
type Sort struct {
	Column    string `yaml:"column"`
	Direction string `yaml:"direction"`
	Entity    string `yaml:"entity"`
}

var _encodings = map[string]*base64.Encoding{
	"":        nil,
	"std":     base64.StdEncoding,
	"url":     base64.URLEncoding,
	"raw_std": base64.RawStdEncoding,
	"raw_url": base64.RawURLEncoding,
}

func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}

	if len(d.Columns) == 0 {
		return nil, fmt.Errorf("spec has no columns")
	}
	if len(d.Sort) == 0 {
		return nil, fmt.Errorf("spec has no sort")
	}
	if _, ok := _encodings[d.Encoding]; !ok {
		return nil, fmt.Errorf("unknown encoding %q", d.Encoding)
	}

	for i, c := range d.Columns {
		if c.Name == "" || c.Public == "" {
			return nil, fmt.Errorf("column at index %d needs name and public", i)
		}
	}

	return &d, nil
}

// Names builds the name mapping with the converters of every column.
func (d *Definition) Names() (*cursorpagination.NameMapping, error) {
	names := cursorpagination.NewNameMapping()
	for _, c := range d.Columns {
		converter, err := c.converter()
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Name, err)
		}

		if err = names.Register(c.Name, c.Public, converter); err != nil {
			return nil, err
		}
	}

	return names, nil
}

// Orderings returns the sort specification.
func (d *Definition) Orderings() (cursorpagination.Orderings, error) {
	ret := make(cursorpagination.Orderings, 0, len(d.Sort))
	for _, s := range d.Sort {
		direction := cursorpagination.DirectionASC
		if s.Direction != "" {
			direction = cursorpagination.Direction(strings.ToUpper(s.Direction))
		}
		if !direction.Valid() {
			return nil, fmt.Errorf("sort column %q: invalid direction %q", s.Column, s.Direction)
		}

		ret = append(ret, cursorpagination.OrderBy{
			Column:    s.Column,
			Direction: direction,
			Entity:    s.Entity,
		})
	}

	return ret, nil
}

// Builder returns a SpecBuilder configured from the definition; the caller
// may add a logger or override settings before Build.
func (d *Definition) Builder() (*cursorpagination.SpecBuilder, error) {
	names, err := d.Names()
	if err != nil {
		return nil, err
	}

	orderings, err := d.Orderings()
	if err != nil {
		return nil, err
	}

	b := cursorpagination.NewSpecBuilder().
		WithNameMapping(names).
		WithSort(orderings...).
		WithLimit(d.Limit).
		WithMaxLimit(d.MaxLimit).
		WithEncoding(_encodings[d.Encoding])
	if d.Lookahead {
		b = b.WithLookahead()
	}

	return b, nil
}

func (c Column) converter() (cursorpagination.ValueConverter, error) {
	switch strings.ToLower(c.Type) {
	case "":
		return nil, nil
	case "int":
		return cursorpagination.IntConverter{}, nil
	case "float":
		return cursorpagination.FloatConverter{}, nil
	case "string":
		return cursorpagination.StringConverter{}, nil
	case "bool":
		return cursorpagination.BoolConverter{}, nil
	case "time":
		return cursorpagination.TimeConverter{Layout: c.Layout}, nil
	case "uuid":
		return cursorpagination.UUIDConverter{}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", c.Type)
	}
}
