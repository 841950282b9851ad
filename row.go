package cursorpagination

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"
)

// Row gives access to a result row by internal column name.
type Row interface {
	Get(column string) (any, bool)
}

// MapRow is a Row backed by a column -> value map.
type MapRow map[string]any

func (r MapRow) Get(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

// Getters - column -> getter map for a model. List the columns the pagination
// is ordered by.
// Example:
//
//	cursorpagination.Getters[Entry]{
//		"id":    func(e Entry) any { return e.ID },
//		"score": func(e Entry) any { return e.Score },
//	}
type Getters[T any] map[string]func(T) any

// Row binds the getters to one item.
func (g Getters[T]) Row(item T) Row {
	return getterRow[T]{getters: g, item: item}
}

type getterRow[T any] struct {
	getters Getters[T]
	item    T
}

func (r getterRow[T]) Get(column string) (any, bool) {
	getter, ok := r.getters[column]
	if !ok {
		return nil, false
	}

	return getter(r.item), true
}

// _schemaCache is shared by every struct row resolution.
var (
	_schemaCache = &sync.Map{}
	_schemaNamer = schema.NamingStrategy{}
)

// RowOf adapts a result element to Row. Supported elements are Row values,
// maps keyed by string and structs (or pointers to structs), whose columns are
// resolved the way gorm names them ("CreatedAt" -> "created_at", or the
// `gorm:"column:..."` tag). Anything else is ErrInvalidResultShape.
func RowOf(item any) (Row, error) {
	if row, ok := item.(Row); ok {
		return row, nil
	}
	if m, ok := item.(map[string]any); ok {
		return MapRow(m), nil
	}

	value := reflect.ValueOf(item)
	for value.Kind() == reflect.Pointer || value.Kind() == reflect.Interface {
		if value.IsNil() {
			return nil, fmt.Errorf("%w: nil %s", ErrInvalidResultShape, value.Type())
		}
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key must be string, got %s", ErrInvalidResultShape, value.Type().Key())
		}
		return reflectMapRow{value: value}, nil
	case reflect.Struct:
		sch, err := schema.Parse(reflect.New(value.Type()).Interface(), _schemaCache, _schemaNamer)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidResultShape, err)
		}
		return structRow{schema: sch, value: value}, nil
	case reflect.Invalid:
		return nil, fmt.Errorf("%w: nil row", ErrInvalidResultShape)
	default:
		return nil, fmt.Errorf("%w: cannot read columns from %s", ErrInvalidResultShape, value.Type())
	}
}

type reflectMapRow struct {
	value reflect.Value
}

func (r reflectMapRow) Get(column string) (any, bool) {
	v := r.value.MapIndex(reflect.ValueOf(column).Convert(r.value.Type().Key()))
	if !v.IsValid() {
		return nil, false
	}

	return v.Interface(), true
}

type structRow struct {
	schema *schema.Schema
	value  reflect.Value
}

func (r structRow) Get(column string) (any, bool) {
	field := r.schema.LookUpField(column)
	if field == nil || field.ValueOf == nil {
		return nil, false
	}

	v, _ := field.ValueOf(context.Background(), r.value)

	return v, true
}

// rowsOf resolves every element of items.
func rowsOf[T any](items []T, getters Getters[T]) ([]Row, error) {
	rows := make([]Row, 0, len(items))
	for i, item := range items {
		if getters != nil {
			rows = append(rows, getters.Row(item))
			continue
		}

		row, err := RowOf(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

var (
	_ Row = MapRow(nil)
	_ Row = getterRow[any]{}
	_ Row = reflectMapRow{}
	_ Row = structRow{}
)
