package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Raw is the untrusted, version-dependent schema payload as fetched from the
// CMS. Fields may be absent and attribute maps may carry unknown type tags;
// Normalize is responsible for degrading gracefully.
type Raw struct {
	ContentTypes []RawContentType `json:"contentTypes"`
	Components   []RawComponent   `json:"components"`
	Locales      []RawLocale      `json:"locales"`
}

// RawContentType is one content-type descriptor from the content-type-builder
// endpoint.
type RawContentType struct {
	UID    string           `json:"uid"`
	APIID  string           `json:"apiID"`
	Schema RawContentSchema `json:"schema"`
}

// RawContentSchema is the nested schema block of a content-type descriptor.
type RawContentSchema struct {
	Kind            string                     `json:"kind"`
	CollectionName  string                     `json:"collectionName"`
	SingularName    string                     `json:"singularName"`
	PluralName      string                     `json:"pluralName"`
	DisplayName     string                     `json:"displayName"`
	Description     string                     `json:"description"`
	DraftAndPublish bool                       `json:"draftAndPublish"`
	PluginOptions   map[string]json.RawMessage `json:"pluginOptions"`
	Attributes      RawAttributes              `json:"attributes"`
}

// RawComponent is one component descriptor.
type RawComponent struct {
	UID      string             `json:"uid"`
	Category string             `json:"category"`
	Schema   RawComponentSchema `json:"schema"`
}

// RawComponentSchema is the nested schema block of a component descriptor.
type RawComponentSchema struct {
	DisplayName string        `json:"displayName"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Attributes  RawAttributes `json:"attributes"`
}

// RawAttributes is an attribute map that preserves the JSON key order of the
// wire payload. Declaration order drives generated field order, so a plain
// Go map would break byte-identical regeneration.
type RawAttributes struct {
	Names []string
	Items map[string]RawAttribute
}

// UnmarshalJSON decodes the attribute object while recording key order.
func (a *RawAttributes) UnmarshalJSON(data []byte) error {
	a.Names = nil
	a.Items = make(map[string]RawAttribute)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected key, got %v", tok)
		}
		var attr RawAttribute
		if err := dec.Decode(&attr); err != nil {
			return fmt.Errorf("attributes: decode %q: %w", name, err)
		}
		a.Names = append(a.Names, name)
		a.Items[name] = attr
	}
	_, err = dec.Token() // closing brace
	return err
}

// RawLocale is one locale descriptor from the i18n plugin.
type RawLocale struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// RawAttribute is the loose superset of every attribute shape the CMS can
// emit. Which fields are meaningful depends on the Type tag.
type RawAttribute struct {
	Type     string          `json:"type"`
	Required bool            `json:"required"`
	Unique   bool            `json:"unique"`
	Private  bool            `json:"private"`
	Default  json.RawMessage `json:"default"`

	// string constraints
	MinLength *int   `json:"minLength"`
	MaxLength *int   `json:"maxLength"`
	Regex     string `json:"regex"`

	// numeric constraints
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`

	// enumeration
	Enum []string `json:"enum"`

	// relation
	Relation string `json:"relation"`
	Target   string `json:"target"`

	// component
	Component  string `json:"component"`
	Repeatable bool   `json:"repeatable"`

	// dynamic zone
	Components []string `json:"components"`

	// media
	Multiple     bool     `json:"multiple"`
	AllowedTypes []string `json:"allowedTypes"`
}
