package scimschema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantcache/pkg/scimschema"
)

func coreSchema() *scimschema.AttributeSchema {
	return &scimschema.AttributeSchema{
		URI:         "urn:ietf:params:scim:schemas:extension:system:2.0:User",
		Name:        "System",
		Description: "System attributes",
		Attributes: []scimschema.Attribute{
			{
				Name:       "userSourceId",
				Type:       scimschema.TypeString,
				Mutability: scimschema.MutabilityReadOnly,
				Returned:   scimschema.ReturnedDefault,
				Uniqueness: scimschema.UniquenessNone,
			},
			{
				Name:        "accountState",
				Type:        scimschema.TypeComplex,
				MultiValued: false,
				SubAttributes: []scimschema.Attribute{
					{Name: "locked", Type: scimschema.TypeBoolean, Returned: scimschema.ReturnedAlways},
					{Name: "lockedUntil", Type: scimschema.TypeDateTime},
				},
			},
		},
	}
}

func TestAttributeSchema_Attribute(t *testing.T) {
	t.Parallel()

	s := coreSchema()

	a, ok := s.Attribute("USERSOURCEID")
	require.True(t, ok)
	assert.Equal(t, "userSourceId", a.Name)

	_, ok = s.Attribute("locked")
	assert.False(t, ok, "sub-attributes are not top-level")
}

func TestAttributeSchema_Clone(t *testing.T) {
	t.Parallel()

	var nilSchema *scimschema.AttributeSchema
	assert.Nil(t, nilSchema.Clone())

	orig := coreSchema()
	c := orig.Clone()
	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	c.Attributes[0].Name = "renamed"
	c.Attributes[1].SubAttributes[1].Type = scimschema.TypeString
	assert.Equal(t, "userSourceId", orig.Attributes[0].Name)
	assert.Equal(t, scimschema.TypeDateTime, orig.Attributes[1].SubAttributes[1].Type)
}

func TestAttributeSchema_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*scimschema.AttributeSchema)
		wantErr string
	}{
		{name: "valid", mutate: func(*scimschema.AttributeSchema) {}},
		{
			name:    "missing id",
			mutate:  func(s *scimschema.AttributeSchema) { s.URI = "" },
			wantErr: "missing schema id",
		},
		{
			name:    "unnamed attribute",
			mutate:  func(s *scimschema.AttributeSchema) { s.Attributes[0].Name = "" },
			wantErr: "attribute 0 has no name",
		},
		{
			name:    "untyped sub-attribute",
			mutate:  func(s *scimschema.AttributeSchema) { s.Attributes[1].SubAttributes[1].Type = "" },
			wantErr: "accountState.lockedUntil: missing type",
		},
		{
			name: "sub-attributes on simple type",
			mutate: func(s *scimschema.AttributeSchema) {
				s.Attributes[0].SubAttributes = []scimschema.Attribute{{Name: "x", Type: scimschema.TypeString}}
			},
			wantErr: "sub-attributes on string attribute",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := coreSchema()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, scimschema.ErrInvalidSchema)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
