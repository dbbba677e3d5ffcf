package schema

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// CategoryType is one of the four fixed configuration domains a setting can
// belong to. Each type maps to its own accessor.
type CategoryType string

const (
	SystemProperties     CategoryType = "system_properties"
	KernelParameters     CategoryType = "kernel_parameters"
	EnvironmentVariables CategoryType = "environment_variables"
	AndroidSpecific      CategoryType = "android_specific"
)

// CategoryTypes returns the four category types in their canonical order.
func CategoryTypes() []CategoryType {
	return []CategoryType{
		SystemProperties,
		KernelParameters,
		EnvironmentVariables,
		AndroidSpecific,
	}
}

// ParseCategoryType maps a string onto a known category type.
func ParseCategoryType(s string) (CategoryType, bool) {
	switch CategoryType(s) {
	case SystemProperties, KernelParameters, EnvironmentVariables, AndroidSpecific:
		return CategoryType(s), true
	}
	return "", false
}

// Title returns the heading used for this category type in human output.
func (c CategoryType) Title() string {
	switch c {
	case SystemProperties:
		return "System Properties"
	case KernelParameters:
		return "Kernel Parameters"
	case EnvironmentVariables:
		return "Environment Variables"
	case AndroidSpecific:
		return "Android Settings"
	}
	return string(c)
}

// Document is a validated android-network-keys schema. Traversal always
// follows the order keys appear in the source document.
type Document struct {
	categories gjson.Result
}

// Load reads and parses a schema file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("schema file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse validates data against the restricted schema shape and returns a
// Document on success. Non-conforming documents produce an error naming the
// offending path, never silently-empty results.
func Parse(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("schema is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("schema root must be a JSON object")
	}

	categories := member(root, "categories")
	if !categories.Exists() {
		return nil, fmt.Errorf(`schema has no "categories" object`)
	}
	if !categories.IsObject() {
		return nil, fmt.Errorf(`schema "categories" must be an object`)
	}

	if err := validate(categories); err != nil {
		return nil, err
	}

	return &Document{categories: categories}, nil
}

// CategoryNames lists the category names under one category type, in
// document order.
func (d *Document) CategoryNames(ctype CategoryType) []string {
	var names []string
	member(d.categories, string(ctype)).ForEach(func(name, _ gjson.Result) bool {
		names = append(names, name.String())
		return true
	})
	return names
}

// ItemKeys lists the setting keys under one category, in document order.
func (d *Document) ItemKeys(ctype CategoryType, cname string) []string {
	var keys []string
	d.category(ctype, cname).ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys
}

// Field returns one leaf field of one setting. Missing fields, JSON null and
// empty strings all come back as "". Numbers and booleans are returned as
// their literal source tokens. When a key appears more than once the first
// occurrence wins.
func (d *Document) Field(ctype CategoryType, cname, key, field string) string {
	item := member(d.category(ctype, cname), key)
	if !item.Exists() {
		return ""
	}
	return scalarText(member(item, field))
}

func (d *Document) category(ctype CategoryType, cname string) gjson.Result {
	return member(member(d.categories, string(ctype)), cname)
}

// member finds a direct child of obj by literal key comparison. This avoids
// gjson path syntax entirely: schema keys routinely contain dots
// (wifi.interface, settings.global.adb_enabled) and slashes that would
// otherwise need escaping. First match wins.
func member(obj gjson.Result, key string) gjson.Result {
	var out gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			out = v
			return false
		}
		return true
	})
	return out
}

// scalarText renders a leaf value as the string the accessors should see.
func scalarText(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.String()
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}
