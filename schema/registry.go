package schema

import "fmt"

// Registry is the injected type-metadata provider consulted by the path
// resolver and the mutation engine. Types are registered once at startup;
// lookups after that are read-only, so a registry may be shared freely.
type Registry struct {
	types map[TypeID]*TypeInfo
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[TypeID]*TypeInfo)}
}

// Register adds a type to the registry. Registering the same TypeID twice
// or a type without a constructor is a configuration mistake and fails.
func (r *Registry) Register(info *TypeInfo) error {
	if info == nil {
		return fmt.Errorf("cannot register nil type info")
	}

	if info.ID.Name == "" {
		return fmt.Errorf("cannot register a type without a name")
	}

	if info.New == nil {
		return fmt.Errorf("type %s has no constructor", info.ID)
	}

	if _, ok := r.types[info.ID]; ok {
		return fmt.Errorf("type %s is already registered", info.ID)
	}

	r.types[info.ID] = info

	return nil
}

// MustRegister is Register for static setup code; it panics on error.
func (r *Registry) MustRegister(info *TypeInfo) {
	if err := r.Register(info); err != nil {
		panic(err)
	}
}

// Type returns the TypeInfo for a given TypeID, or nil if not registered.
func (r *Registry) Type(id TypeID) *TypeInfo {
	return r.types[id]
}

// Attr returns the named attribute of a registered type, or nil if either
// the type or the attribute is unknown.
func (r *Registry) Attr(id TypeID, name string) *Attribute {
	info := r.types[id]
	if info == nil {
		return nil
	}

	return info.Attr(name)
}

// PrimaryKeys returns the primary key attributes of a type in declaration
// order.
func (r *Registry) PrimaryKeys(id TypeID) []Attribute {
	info := r.types[id]
	if info == nil {
		return nil
	}

	var keys []Attribute

	for _, attr := range info.Attributes {
		if attr.PrimaryKey {
			keys = append(keys, attr)
		}
	}

	return keys
}
