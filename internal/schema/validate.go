package schema

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// validate walks the categories object and rejects anything outside the
// restricted shape: known category types only, each an object of category
// names, each an object of setting keys, each a flat object of scalar
// fields.
func validate(categories gjson.Result) error {
	var err error
	categories.ForEach(func(typeKey, typeVal gjson.Result) bool {
		if _, ok := ParseCategoryType(typeKey.String()); !ok {
			err = fmt.Errorf("categories.%s: unknown category type (expected one of %s)",
				typeKey.String(), knownTypes())
			return false
		}
		if !typeVal.IsObject() {
			err = fmt.Errorf("categories.%s: must be an object of category names", typeKey.String())
			return false
		}
		typeVal.ForEach(func(nameKey, nameVal gjson.Result) bool {
			path := typeKey.String() + "." + nameKey.String()
			if !nameVal.IsObject() {
				err = fmt.Errorf("categories.%s: must be an object of setting keys", path)
				return false
			}
			nameVal.ForEach(func(itemKey, itemVal gjson.Result) bool {
				itemPath := path + "." + itemKey.String()
				if !itemVal.IsObject() {
					err = fmt.Errorf("categories.%s: must be an object of fields", itemPath)
					return false
				}
				itemVal.ForEach(func(fieldKey, fieldVal gjson.Result) bool {
					if fieldVal.IsObject() || fieldVal.IsArray() {
						err = fmt.Errorf("categories.%s.%s: field values must be scalars, got %s",
							itemPath, fieldKey.String(), jsonKind(fieldVal))
						return false
					}
					return true
				})
				return err == nil
			})
			return err == nil
		})
		return err == nil
	})
	return err
}

func knownTypes() string {
	types := CategoryTypes()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func jsonKind(v gjson.Result) string {
	if v.IsArray() {
		return "an array"
	}
	return "an object"
}
