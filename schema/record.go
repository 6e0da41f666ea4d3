package schema

// Record is the capability interface every mapped type implements. Field and
// relationship access is decided at schema-registration time by the type
// itself rather than discovered through runtime reflection, so a record is
// always in full control of how its attributes are read and written.
//
// SetField receives values already coerced to the attribute's native column
// type (see the coerce package); an implementation may still reject a value
// it cannot hold.
type Record interface {
	// TypeID identifies the record's mapped type.
	TypeID() TypeID

	// GetField returns the named scalar attribute value. The second return
	// is false if the record has no such field.
	GetField(name string) (any, bool)

	// SetField assigns a scalar attribute value.
	SetField(name string, value any) error

	// Relation returns the record held by a to-one relationship, or nil
	// when the relationship is unset or unknown.
	Relation(name string) Record

	// RelationList returns the records held by a to-many relationship.
	RelationList(name string) []Record

	// SetRelation replaces a to-one relationship. Passing nil detaches the
	// currently related record.
	SetRelation(name string, value Record) error

	// AddRelated appends a record to a to-many relationship.
	AddRelated(name string, value Record) error

	// RemoveRelated removes a record from a to-many relationship.
	RemoveRelated(name string, value Record) error
}
