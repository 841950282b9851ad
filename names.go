package cursorpagination

import (
	"fmt"
	"maps"
	"slices"
)

// NameMapping is the bijection between internal column names (used in the
// sort specification and in predicates) and public names (used in cursor
// tokens). Each internal column may carry a ValueConverter.
//
// A NameMapping is not safe for concurrent registration; a built Spec holds
// its own copy.
type NameMapping struct {
	privateToPublic map[string]string
	publicToPrivate map[string]string
	converters      map[string]ValueConverter
}

func NewNameMapping() *NameMapping {
	return &NameMapping{
		privateToPublic: make(map[string]string),
		publicToPrivate: make(map[string]string),
		converters:      make(map[string]ValueConverter),
	}
}

// Register records internal <-> public. Registering the same pair twice is a
// no-op apart from replacing the converter; reusing either name for a
// different counterpart is an error.
func (m *NameMapping) Register(internal, public string, converter ValueConverter) error {
	if internal == "" || public == "" {
		return fmt.Errorf("cannot register empty column name (internal '%s', public '%s')", internal, public)
	}

	if known, ok := m.privateToPublic[internal]; ok && known != public {
		return fmt.Errorf("column '%s' is already registered as '%s'", internal, known)
	}

	if known, ok := m.publicToPrivate[public]; ok && known != internal {
		return fmt.Errorf("property '%s' is already registered for column '%s'", public, known)
	}

	m.privateToPublic[internal] = public
	m.publicToPrivate[public] = internal
	if converter != nil {
		m.converters[internal] = converter
	} else {
		delete(m.converters, internal)
	}

	return nil
}

// ToPublic returns the public name of an internal column.
func (m *NameMapping) ToPublic(internal string) (string, error) {
	if m != nil {
		if public, ok := m.privateToPublic[internal]; ok {
			return public, nil
		}
	}

	return "", &ColumnNotRegisteredError{Column: internal, Side: SideInternal}
}

// ToPrivate returns the internal column registered for a public name.
func (m *NameMapping) ToPrivate(public string) (string, error) {
	if m != nil {
		if internal, ok := m.publicToPrivate[public]; ok {
			return internal, nil
		}
	}

	return "", &ColumnNotRegisteredError{Column: public, Side: SidePublic}
}

// Converter returns the converter registered for an internal column, if any.
func (m *NameMapping) Converter(internal string) (ValueConverter, bool) {
	if m == nil {
		return nil, false
	}

	converter, ok := m.converters[internal]
	return converter, ok
}

// PublicNames returns the registered public names, sorted.
func (m *NameMapping) PublicNames() []string {
	if m == nil {
		return nil
	}

	var names []string
	for name := range m.publicToPrivate {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Clone returns an independent copy.
func (m *NameMapping) Clone() *NameMapping {
	if m == nil {
		return NewNameMapping()
	}

	return &NameMapping{
		privateToPublic: maps.Clone(m.privateToPublic),
		publicToPrivate: maps.Clone(m.publicToPrivate),
		converters:      maps.Clone(m.converters),
	}
}

// convert applies the registered converter of an internal column, if any.
func (m *NameMapping) convert(internal string, value any) (any, error) {
	converter, ok := m.Converter(internal)
	if !ok {
		return value, nil
	}

	return converter.Convert(value)
}
