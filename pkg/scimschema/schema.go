package scimschema

import (
	"fmt"
	"strings"
)

// Attribute data types (RFC 7643, section 2.3).
const (
	TypeString    = "string"
	TypeBoolean   = "boolean"
	TypeDecimal   = "decimal"
	TypeInteger   = "integer"
	TypeDateTime  = "dateTime"
	TypeBinary    = "binary"
	TypeReference = "reference"
	TypeComplex   = "complex"
)

// Mutability values.
const (
	MutabilityReadOnly  = "readOnly"
	MutabilityReadWrite = "readWrite"
	MutabilityImmutable = "immutable"
	MutabilityWriteOnly = "writeOnly"
)

// Returned values.
const (
	ReturnedAlways  = "always"
	ReturnedNever   = "never"
	ReturnedDefault = "default"
	ReturnedRequest = "request"
)

// Uniqueness values.
const (
	UniquenessNone   = "none"
	UniquenessServer = "server"
	UniquenessGlobal = "global"
)

// AttributeSchema describes the system attributes a tenant exposes through SCIM.
type AttributeSchema struct {
	URI         string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

// Attribute is a single attribute definition. Complex attributes carry their
// children in SubAttributes.
type Attribute struct {
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	MultiValued   bool        `json:"multiValued"`
	Required      bool        `json:"required"`
	CaseExact     bool        `json:"caseExact"`
	Mutability    string      `json:"mutability,omitempty"`
	Returned      string      `json:"returned,omitempty"`
	Uniqueness    string      `json:"uniqueness,omitempty"`
	SubAttributes []Attribute `json:"subAttributes,omitempty"`
}

// Clone returns a deep copy of s. A nil schema clones to nil.
func (s *AttributeSchema) Clone() *AttributeSchema {
	if s == nil {
		return nil
	}
	c := *s
	c.Attributes = cloneAttributes(s.Attributes)
	return &c
}

func cloneAttributes(attrs []Attribute) []Attribute {
	if attrs == nil {
		return nil
	}
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		out[i] = a
		out[i].SubAttributes = cloneAttributes(a.SubAttributes)
	}
	return out
}

// Attribute returns the top-level attribute with the given name.
// Attribute names are case-insensitive.
func (s *AttributeSchema) Attribute(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Validate checks that the schema has an id and that every attribute,
// including nested ones, is named and typed.
func (s *AttributeSchema) Validate() error {
	if s.URI == "" {
		return fmt.Errorf("%w: missing schema id", ErrInvalidSchema)
	}
	return validateAttributes(s.URI, s.Attributes)
}

func validateAttributes(path string, attrs []Attribute) error {
	for i, a := range attrs {
		if a.Name == "" {
			return fmt.Errorf("%w: %s: attribute %d has no name", ErrInvalidSchema, path, i)
		}
		if a.Type == "" {
			return fmt.Errorf("%w: %s.%s: missing type", ErrInvalidSchema, path, a.Name)
		}
		if a.Type != TypeComplex && len(a.SubAttributes) > 0 {
			return fmt.Errorf("%w: %s.%s: sub-attributes on %s attribute", ErrInvalidSchema, path, a.Name, a.Type)
		}
		if err := validateAttributes(path+"."+a.Name, a.SubAttributes); err != nil {
			return err
		}
	}
	return nil
}
