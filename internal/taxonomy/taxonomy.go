// Package taxonomy normalises the classification groups attached to content items.
//
// Authors write
//
//	taxonomy:
//	  - name: Topics
//	    values:
//	      - Air Quality
//	      - Health
//
// and consumers receive each value as {id, name} with a stable slug id.
package taxonomy

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/attr"
)

// Key is the metadata field holding taxonomy groups.
const Key = "taxonomy"

// Process returns metadata with its taxonomy groups normalised:
// group names trimmed, groups sharing a name merged at the first position,
// values converted to {id, name} and de-duplicated by id, and empty groups
// dropped. Metadata without a taxonomy field is returned unchanged.
func Process(metadata attr.Value) (attr.Value, error) {
	raw, ok := metadata.Get(Key)
	if !ok || raw.IsNull() {
		return metadata, nil
	}
	if raw.Kind() != attr.KindList {
		return attr.Value{}, fmt.Errorf("%w: %s is a %s, want list", apperr.ErrTransform, Key, raw.Kind())
	}

	type group struct {
		name   string
		values []attr.Value
		seen   map[string]struct{}
	}
	var order []*group
	byName := map[string]*group{}

	for i, item := range raw.Items() {
		if item.Kind() != attr.KindMap {
			return attr.Value{}, fmt.Errorf("%w: %s[%d] is a %s, want map", apperr.ErrTransform, Key, i, item.Kind())
		}
		name := strings.TrimSpace(stringField(item, "name"))
		if name == "" {
			continue
		}
		g, ok := byName[name]
		if !ok {
			g = &group{name: name, seen: map[string]struct{}{}}
			byName[name] = g
			order = append(order, g)
		}
		values, _ := item.Get("values")
		for _, v := range values.Items() {
			id, label := normaliseValue(v)
			if id == "" {
				continue
			}
			if _, dup := g.seen[id]; dup {
				continue
			}
			g.seen[id] = struct{}{}
			g.values = append(g.values, attr.Map(
				attr.Pair{Key: "id", Value: attr.String(id)},
				attr.Pair{Key: "name", Value: attr.String(label)},
			))
		}
	}

	groups := make([]attr.Value, 0, len(order))
	for _, g := range order {
		if len(g.values) == 0 {
			continue
		}
		groups = append(groups, attr.Map(
			attr.Pair{Key: "name", Value: attr.String(g.name)},
			attr.Pair{Key: "values", Value: attr.List(g.values...)},
		))
	}
	return metadata.With(Key, attr.List(groups...)), nil
}

// Values returns the (group, id, name) triples of an already processed item.
func Values(metadata attr.Value) []Entry {
	raw, _ := metadata.Get(Key)
	var out []Entry
	for _, g := range raw.Items() {
		group := stringField(g, "name")
		values, _ := g.Get("values")
		for _, v := range values.Items() {
			out = append(out, Entry{
				Taxonomy: group,
				ID:       stringField(v, "id"),
				Name:     stringField(v, "name"),
			})
		}
	}
	return out
}

// Entry is one classification value of an item.
type Entry struct {
	Taxonomy string `json:"taxonomy"`
	ID       string `json:"id"`
	Name     string `json:"name"`
}

func normaliseValue(v attr.Value) (id, name string) {
	switch v.Kind() {
	case attr.KindString:
		name, _ = v.AsString()
	case attr.KindMap:
		name = stringField(v, "name")
		id = strings.TrimSpace(stringField(v, "id"))
	case attr.KindInt, attr.KindFloat:
		b, _ := v.MarshalJSON()
		name = string(b)
	default:
		return "", ""
	}
	name = strings.TrimSpace(name)
	if id == "" {
		id = Slug(name)
	}
	if name == "" {
		name = id
	}
	return id, name
}

func stringField(v attr.Value, key string) string {
	f, ok := v.Get(key)
	if !ok {
		return ""
	}
	s, _ := f.AsString()
	return s
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug lower-cases s, removes diacritics and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Slug(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
