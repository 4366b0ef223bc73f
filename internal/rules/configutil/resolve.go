// Package configutil provides utilities for rule configuration resolution.
package configutil

import (
	"encoding/json"
	"reflect"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Resolve merges a rule's raw `[linters.settings.<alias>]` table over its
// defaults and unmarshals to the rule's typed settings struct. If the table
// is nil or empty, returns defaults unchanged. This eliminates duplicated
// map-to-struct conversion in each mdNNN package.
//
// Note: For slice/map fields, only nil values are replaced with defaults.
// An explicitly empty slice ([]string{}) preserves the empty value,
// allowing users to explicitly clear defaults. Settings whose zero value is
// a meaningful user choice (an explicit `false` against a true default)
// must be pointer fields for the same reason.
func Resolve[T any](settings map[string]any, defaults T) T {
	if len(settings) == 0 {
		return defaults
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(settings, "."), nil); err != nil {
		return defaults
	}

	var resolved T
	if err := k.Unmarshal("", &resolved); err != nil {
		return defaults
	}

	// Merge defaults for zero-valued fields
	return mergeDefaults(resolved, defaults)
}

// mergeDefaults fills zero-valued fields in resolved with values from defaults.
func mergeDefaults[T any](resolved, defaults T) T {
	resolvedVal := reflect.ValueOf(&resolved).Elem()
	defaultsVal := reflect.ValueOf(defaults)

	if resolvedVal.Kind() != reflect.Struct {
		return resolved
	}

	for i := range resolvedVal.NumField() {
		field := resolvedVal.Field(i)
		if !field.CanSet() {
			continue
		}
		if isZero(field) {
			field.Set(defaultsVal.Field(i))
		}
	}

	return resolved
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	//exhaustive:ignore
	switch v.Kind() {
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.String:
		return v.String() == ""
	case reflect.Slice, reflect.Map:
		return v.IsNil()
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// ValidateWithSchema validates a rule's raw settings table against a JSON
// Schema (the map[string]any a rule registers as Descriptor.Schema).
// Returns nil if valid, or an error describing validation failures.
func ValidateWithSchema(settings any, schema map[string]any) error {
	if schema == nil {
		return nil
	}

	// Handle nil settings (including typed nil pointers like (*Settings)(nil))
	if settings == nil {
		return nil
	}
	rv := reflect.ValueOf(settings)
	if rv.Kind() == reflect.Ptr && rv.IsNil() {
		return nil
	}

	// AddResource expects an unmarshaled JSON value (map[string]any), not bytes
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", schema); err != nil {
		return err
	}

	sch, err := compiler.Compile("schema.json")
	if err != nil {
		return err
	}

	// Convert the settings table to a plain JSON value for validation.
	// The jsonschema library validates against unmarshaled JSON values.
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}

	return sch.Validate(value)
}
