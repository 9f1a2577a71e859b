package schema

import (
	"encoding/json"
	"sort"
	"strings"
)

// systemFields are injected by the CMS on every entry and are emitted by the
// generators as part of the base entity shape, never as user attributes.
var systemFields = map[string]bool{
	"id":            true,
	"documentId":    true,
	"createdAt":     true,
	"updatedAt":     true,
	"publishedAt":   true,
	"createdBy":     true,
	"updatedBy":     true,
	"locale":        true,
	"localizations": true,
}

// kindByTag maps the CMS wire type tags onto the closed AttributeKind set.
var kindByTag = map[string]AttributeKind{
	"string":      KindString,
	"text":        KindText,
	"richtext":    KindRichText,
	"blocks":      KindBlocks,
	"email":       KindEmail,
	"password":    KindPassword,
	"uid":         KindSlug,
	"integer":     KindInteger,
	"biginteger":  KindBigInteger,
	"float":       KindFloat,
	"decimal":     KindDecimal,
	"boolean":     KindBoolean,
	"date":        KindDate,
	"time":        KindTime,
	"datetime":    KindDateTime,
	"timestamp":   KindTimestamp,
	"json":        KindJSON,
	"enumeration": KindEnumeration,
	"media":       KindMedia,
	"relation":    KindRelation,
	"component":   KindComponent,
	"dynamiczone": KindDynamicZone,
}

// Normalize converts the raw wire schema into the stable internal model. It
// is pure and total: malformed or unknown input degrades (unknown kinds,
// missing flags) instead of failing. Output ordering is a correctness
// requirement — downstream generation must be byte-identical across runs.
func Normalize(raw Raw) *ParsedSchema {
	parsed := &ParsedSchema{}

	for _, ct := range raw.ContentTypes {
		if !strings.HasPrefix(ct.UID, "api::") {
			continue
		}
		entity := Entity{
			UID:             ct.UID,
			APIID:           ct.APIID,
			Singular:        ct.Schema.SingularName,
			Plural:          ct.Schema.PluralName,
			DisplayName:     ct.Schema.DisplayName,
			Description:     ct.Schema.Description,
			Collection:      ct.Schema.Kind == "collectionType",
			DraftAndPublish: ct.Schema.DraftAndPublish,
			Localized:       localizedFlag(ct.Schema.PluginOptions),
			Attributes:      normalizeAttributes(ct.Schema.Attributes),
		}
		if entity.APIID == "" {
			entity.APIID = entity.Singular
		}
		if entity.Collection {
			parsed.Collections = append(parsed.Collections, entity)
		} else {
			parsed.Singles = append(parsed.Singles, entity)
		}
	}

	for _, rc := range raw.Components {
		name := rc.UID
		if i := strings.IndexByte(rc.UID, '.'); i >= 0 {
			name = rc.UID[i+1:]
		}
		parsed.Components = append(parsed.Components, Component{
			UID:         rc.UID,
			Category:    rc.Category,
			Name:        name,
			DisplayName: rc.Schema.DisplayName,
			Attributes:  normalizeAttributes(rc.Schema.Attributes),
		})
	}

	for _, l := range raw.Locales {
		if l.Code == "" {
			continue
		}
		parsed.Locales = append(parsed.Locales, Locale(l))
	}

	sort.Slice(parsed.Collections, func(i, j int) bool {
		return parsed.Collections[i].Singular < parsed.Collections[j].Singular
	})
	sort.Slice(parsed.Singles, func(i, j int) bool {
		return parsed.Singles[i].Singular < parsed.Singles[j].Singular
	})
	sort.Slice(parsed.Components, func(i, j int) bool {
		return parsed.Components[i].UID < parsed.Components[j].UID
	})
	sort.Slice(parsed.Locales, func(i, j int) bool {
		return parsed.Locales[i].Code < parsed.Locales[j].Code
	})

	return parsed
}

// normalizeAttributes filters system and private attributes and converts the
// rest, preserving declaration order.
func normalizeAttributes(raw RawAttributes) []Attribute {
	var out []Attribute
	for _, name := range raw.Names {
		ra := raw.Items[name]
		if systemFields[name] || ra.Private {
			continue
		}
		out = append(out, normalizeAttribute(name, ra))
	}
	return out
}

func normalizeAttribute(name string, ra RawAttribute) Attribute {
	kind, ok := kindByTag[ra.Type]
	if !ok {
		kind = KindUnknown
	}

	attr := Attribute{
		Name:     name,
		Kind:     kind,
		Required: ra.Required,
		Unique:   ra.Unique,
		Default:  ra.Default,
	}

	switch kind {
	case KindString, KindText, KindRichText, KindEmail, KindPassword, KindSlug:
		attr.MinLength = ra.MinLength
		attr.MaxLength = ra.MaxLength
		attr.Regex = ra.Regex
	case KindInteger, KindBigInteger, KindFloat, KindDecimal:
		attr.Min = ra.Min
		attr.Max = ra.Max
	case KindEnumeration:
		attr.Enum = ra.Enum
	case KindRelation:
		attr.Relation = RelationKind(ra.Relation)
		attr.Target = ra.Target
	case KindComponent:
		attr.Component = ra.Component
		attr.Repeatable = ra.Repeatable
	case KindDynamicZone:
		attr.Components = append([]string(nil), ra.Components...)
	case KindMedia:
		attr.Multiple = ra.Multiple
	}

	return attr
}

// localizedFlag digs the i18n localization flag out of the plugin options
// block. Anything short of an explicit true means not localized.
func localizedFlag(opts map[string]json.RawMessage) bool {
	rawI18n, ok := opts["i18n"]
	if !ok {
		return false
	}
	var i18n struct {
		Localized bool `json:"localized"`
	}
	if err := json.Unmarshal(rawI18n, &i18n); err != nil {
		return false
	}
	return i18n.Localized
}
