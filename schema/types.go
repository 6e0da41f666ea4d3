package schema

// TypeID uniquely identifies a mapped record type.
type TypeID struct {
	Name string // e.g., "Album"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	return t.Name
}

// AttrKind represents the kind of a record attribute.
type AttrKind int

const (
	AttrScalar AttrKind = iota // column-backed scalar value
	AttrToOne                  // single-valued relationship
	AttrToMany                 // collection-valued relationship
)

// String returns a human-readable representation of the AttrKind.
func (k AttrKind) String() string {
	switch k {
	case AttrScalar:
		return "scalar"
	case AttrToOne:
		return "to-one"
	case AttrToMany:
		return "to-many"
	default:
		return "unknown"
	}
}

// ScalarKind represents the native column type backing a scalar attribute.
type ScalarKind int

const (
	ScalarString ScalarKind = iota
	ScalarInt
	ScalarFloat
	ScalarBool
	ScalarTime
)

// String returns a human-readable representation of the ScalarKind.
func (k ScalarKind) String() string {
	switch k {
	case ScalarString:
		return "string"
	case ScalarInt:
		return "int"
	case ScalarFloat:
		return "float"
	case ScalarBool:
		return "bool"
	case ScalarTime:
		return "time"
	default:
		return "unknown"
	}
}

// Attribute describes one named attribute of a record type. Derived from
// mapping metadata at registration time; looked up, never mutated.
type Attribute struct {
	// Name is the attribute name as it appears in dotted paths.
	Name string

	// Kind distinguishes scalar columns from relationships.
	Kind AttrKind

	// Scalar is the column value type. Valid only when Kind is AttrScalar.
	Scalar ScalarKind

	// Target is the related record type. Valid only for relationship kinds.
	Target TypeID

	// PrimaryKey marks scalar attributes that identify a record.
	PrimaryKey bool
}

// IsRelation returns true for to-one and to-many attributes.
func (a *Attribute) IsRelation() bool {
	return a.Kind == AttrToOne || a.Kind == AttrToMany
}

// TypeInfo holds the full metadata for one record type.
type TypeInfo struct {
	// ID is the unique identifier of the type.
	ID TypeID

	// Attributes lists the type's attributes in declaration order.
	Attributes []Attribute

	// New constructs a blank instance of the type. Used for nested
	// creation and for placeholder instances during validation.
	New func() Record
}

// Attr returns the named attribute, or nil if the type has no such attribute.
func (t *TypeInfo) Attr(name string) *Attribute {
	for i := range t.Attributes {
		if t.Attributes[i].Name == name {
			return &t.Attributes[i]
		}
	}

	return nil
}
