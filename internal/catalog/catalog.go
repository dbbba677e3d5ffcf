package catalog

import (
	"strings"

	"github.com/andronet-dev/andronet/internal/schema"
)

// DefaultDescription fills in for settings whose schema entry carries none.
const DefaultDescription = "No description available"

// Descriptor identifies one configurable value and what the schema says
// about it.
type Descriptor struct {
	CategoryType schema.CategoryType
	CategoryName string
	Key          string
	Default      string
	Description  string
}

// Applyable reports whether the descriptor carries a default worth writing:
// non-empty and not the literal string "null".
func (d Descriptor) Applyable() bool {
	return d.Default != "" && d.Default != "null"
}

// Group returns the label snapshots group this descriptor under,
// "<category_type>_<category_name>".
func (d Descriptor) Group() string {
	return string(d.CategoryType) + "_" + d.CategoryName
}

// Catalog is the ordered set of setting descriptors produced from one schema
// document. Built fresh on every invocation, read-only once built.
type Catalog struct {
	settings []Descriptor
}

// Build traverses the document and collects every descriptor: the four
// category types in canonical order, categories and keys in document order.
func Build(doc *schema.Document) *Catalog {
	c := &Catalog{}
	for _, ctype := range schema.CategoryTypes() {
		for _, cname := range doc.CategoryNames(ctype) {
			for _, key := range doc.ItemKeys(ctype, cname) {
				description := doc.Field(ctype, cname, key, "description")
				if description == "" {
					description = DefaultDescription
				}
				c.settings = append(c.settings, Descriptor{
					CategoryType: ctype,
					CategoryName: cname,
					Key:          key,
					Default:      doc.Field(ctype, cname, key, "default"),
					Description:  description,
				})
			}
		}
	}
	return c
}

// Settings returns every descriptor in catalog order.
func (c *Catalog) Settings() []Descriptor {
	return c.settings
}

// ForEach calls fn for every descriptor in catalog order.
func (c *Catalog) ForEach(fn func(Descriptor)) {
	for _, d := range c.settings {
		fn(d)
	}
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return len(c.settings)
}

// CategoryCount returns the number of distinct categories across all types.
func (c *Catalog) CategoryCount() int {
	return len(c.Groups())
}

// ApplyableCount returns how many descriptors carry a usable default.
func (c *Catalog) ApplyableCount() int {
	n := 0
	for _, d := range c.settings {
		if d.Applyable() {
			n++
		}
	}
	return n
}

// FilterType returns a catalog restricted to one category type.
func (c *Catalog) FilterType(ctype schema.CategoryType) *Catalog {
	out := &Catalog{}
	for _, d := range c.settings {
		if d.CategoryType == ctype {
			out.settings = append(out.settings, d)
		}
	}
	return out
}

// FilterCategory returns a catalog restricted to one category name, across
// all category types.
func (c *Catalog) FilterCategory(name string) *Catalog {
	out := &Catalog{}
	for _, d := range c.settings {
		if d.CategoryName == name {
			out.settings = append(out.settings, d)
		}
	}
	return out
}

// FilterGroups returns a catalog restricted to the given group labels.
// A nil set means no restriction.
func (c *Catalog) FilterGroups(groups map[string]bool) *Catalog {
	if groups == nil {
		return c
	}
	out := &Catalog{}
	for _, d := range c.settings {
		if groups[d.Group()] {
			out.settings = append(out.settings, d)
		}
	}
	return out
}

// Groups returns the distinct group labels in catalog order.
func (c *Catalog) Groups() []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range c.settings {
		g := d.Group()
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}
	return out
}

// CategoryNames returns the distinct category names under one type, in
// catalog order.
func (c *Catalog) CategoryNames(ctype schema.CategoryType) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range c.settings {
		if d.CategoryType == ctype && !seen[d.CategoryName] {
			seen[d.CategoryName] = true
			out = append(out, d.CategoryName)
		}
	}
	return out
}

// SplitGroup decomposes a group label back into its category type and name.
// The type is matched by prefix; the four type names never overlap.
func SplitGroup(group string) (schema.CategoryType, string, bool) {
	for _, ctype := range schema.CategoryTypes() {
		prefix := string(ctype) + "_"
		if strings.HasPrefix(group, prefix) && len(group) > len(prefix) {
			return ctype, group[len(prefix):], true
		}
	}
	return "", "", false
}
