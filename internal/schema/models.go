package schema

import "encoding/json"

// ParsedSchema is the normalized schema model. It is built once per run by
// Normalize and read-only afterwards: collections and singles are sorted by
// singular name, components by UID, and every attribute list preserves the
// declaration order of the source schema.
type ParsedSchema struct {
	Collections []Entity    `json:"collections"`
	Singles     []Entity    `json:"singles"`
	Components  []Component `json:"components"`
	Locales     []Locale    `json:"locales"`
}

// Entity is a normalized collection or single content type.
type Entity struct {
	UID             string      `json:"uid"`
	APIID           string      `json:"apiID"`
	Singular        string      `json:"singular"`
	Plural          string      `json:"plural"`
	DisplayName     string      `json:"displayName"`
	Description     string      `json:"description"`
	Collection      bool        `json:"collection"`
	DraftAndPublish bool        `json:"draftAndPublish"`
	Localized       bool        `json:"localized"`
	Attributes      []Attribute `json:"attributes"`
}

// Component is a reusable structured field group. Components may reference
// other components (and themselves), so the component set forms a graph
// addressed by UID, never by nesting.
type Component struct {
	UID         string      `json:"uid"`
	Category    string      `json:"category"`
	Name        string      `json:"name"`
	DisplayName string      `json:"displayName"`
	Attributes  []Attribute `json:"attributes"`
}

// Locale is one locale available in the source CMS.
type Locale struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// AttributeKind is the closed set of attribute kinds the generators can map.
// Unrecognized wire tags normalize to KindUnknown rather than failing.
type AttributeKind string

const (
	KindString      AttributeKind = "string"
	KindText        AttributeKind = "text"
	KindRichText    AttributeKind = "richtext"
	KindBlocks      AttributeKind = "blocks"
	KindEmail       AttributeKind = "email"
	KindPassword    AttributeKind = "password"
	KindSlug        AttributeKind = "uid"
	KindInteger     AttributeKind = "integer"
	KindBigInteger  AttributeKind = "biginteger"
	KindFloat       AttributeKind = "float"
	KindDecimal     AttributeKind = "decimal"
	KindBoolean     AttributeKind = "boolean"
	KindDate        AttributeKind = "date"
	KindTime        AttributeKind = "time"
	KindDateTime    AttributeKind = "datetime"
	KindTimestamp   AttributeKind = "timestamp"
	KindJSON        AttributeKind = "json"
	KindEnumeration AttributeKind = "enumeration"
	KindMedia       AttributeKind = "media"
	KindRelation    AttributeKind = "relation"
	KindComponent   AttributeKind = "component"
	KindDynamicZone AttributeKind = "dynamiczone"
	KindUnknown     AttributeKind = "unknown"
)

// RelationKind is the cardinality of a relation attribute.
type RelationKind string

const (
	OneToOne   RelationKind = "oneToOne"
	OneToMany  RelationKind = "oneToMany"
	ManyToOne  RelationKind = "manyToOne"
	ManyToMany RelationKind = "manyToMany"
)

// Many reports whether the relation holds multiple target entries.
func (r RelationKind) Many() bool {
	return r == OneToMany || r == ManyToMany
}

// Attribute is one normalized attribute. Kind selects which of the
// kind-specific fields are meaningful.
type Attribute struct {
	Name     string          `json:"name"`
	Kind     AttributeKind   `json:"kind"`
	Required bool            `json:"required"`
	Unique   bool            `json:"unique"`
	Default  json.RawMessage `json:"default,omitempty"`

	// KindString/KindText/KindEmail/KindPassword/KindSlug
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Regex     string `json:"regex,omitempty"`

	// numeric kinds
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`

	// KindEnumeration
	Enum []string `json:"enum,omitempty"`

	// KindRelation
	Relation RelationKind `json:"relation,omitempty"`
	Target   string       `json:"target,omitempty"`

	// KindComponent
	Component  string `json:"component,omitempty"`
	Repeatable bool   `json:"repeatable,omitempty"`

	// KindDynamicZone
	Components []string `json:"components,omitempty"`

	// KindMedia
	Multiple bool `json:"multiple,omitempty"`
}

// HasSlug reports whether the entity declares a uid/slug attribute, which
// gates the generated find-by-slug service operation.
func (e *Entity) HasSlug() bool {
	return e.SlugAttribute() != ""
}

// SlugAttribute returns the name of the entity's slug attribute, or "".
func (e *Entity) SlugAttribute() string {
	for _, a := range e.Attributes {
		if a.Kind == KindSlug {
			return a.Name
		}
	}
	return ""
}

// LookupEntity resolves a content-type UID to its normalized entity. The
// second result distinguishes collections from singles.
func (s *ParsedSchema) LookupEntity(uid string) (*Entity, bool) {
	for i := range s.Collections {
		if s.Collections[i].UID == uid {
			return &s.Collections[i], true
		}
	}
	for i := range s.Singles {
		if s.Singles[i].UID == uid {
			return &s.Singles[i], true
		}
	}
	return nil, false
}

// LookupComponent resolves a component UID.
func (s *ParsedSchema) LookupComponent(uid string) (*Component, bool) {
	for i := range s.Components {
		if s.Components[i].UID == uid {
			return &s.Components[i], true
		}
	}
	return nil, false
}

// Entities returns collections followed by singles, both already sorted.
func (s *ParsedSchema) Entities() []Entity {
	out := make([]Entity, 0, len(s.Collections)+len(s.Singles))
	out = append(out, s.Collections...)
	out = append(out, s.Singles...)
	return out
}

// LocalizationEnabled reports whether the source CMS exposed any locales.
func (s *ParsedSchema) LocalizationEnabled() bool {
	return len(s.Locales) > 0
}
