package skema

import (
	"reflect"

	json "github.com/goccy/go-json"
)

// absentValue marks a property that is not present in its parent object. It
// never escapes the transformer: objects drop absent results.
type absentValue struct{}

var absent any = absentValue{}

func isMissing(v any) bool {
	_, ok := v.(absentValue)
	return ok
}

func isMissingOrNull(v any) bool { return v == nil || isMissing(v) }

// numberLike covers json.Number flavours from other JSON packages.
type numberLike interface {
	Float64() (float64, error)
	String() string
}

// Value kinds as reported in Issue params.
const (
	kindMissing = "missing"
	kindNull    = "null"
	kindString  = "string"
	kindNumber  = "number"
	kindBoolean = "boolean"
	kindArray   = "array"
	kindObject  = "object"
)

// kindOf reports the JSON kind of a native or wire value.
func kindOf(v any) string {
	switch v.(type) {
	case absentValue:
		return kindMissing
	case nil:
		return kindNull
	case string:
		return kindString
	case bool:
		return kindBoolean
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return kindNumber
	case []any:
		return kindArray
	case map[string]any:
		return kindObject
	case numberLike:
		return kindNumber
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBoolean
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindNumber
	case reflect.Slice, reflect.Array:
		return kindArray
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return kindObject
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return kindNull
		}
	}
	return "unsupported"
}

// asSlice views a sequence value as []any.
func asSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asObject views a string-keyed map value as map[string]any.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asString returns the string content of string-kinded values, including
// named string types such as enum constants.
func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// toFloat64 converts any number kind to float64.
func toFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case numberLike:
		f, err := t.Float64()
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}
