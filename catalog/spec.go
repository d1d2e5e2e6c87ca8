package catalog

import (
	"strings"

	"github.com/inkwell-ai/inkwell/errors"
)

// Spec is a raw configuration object as decoded from a settings source.
// Typed loaders pull validated fields out of it; a field of the wrong type
// is a config error that drops the owning item, never a crash.
type Spec map[string]interface{}

// copySpec deep-copies a spec so merged items never alias their parents.
func copySpec(s Spec) Spec {
	out := make(Spec, len(s))
	for k, v := range s {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case Spec:
		return map[string]interface{}(copySpec(t))
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}

// asSpec normalizes the two shapes a nested object can arrive in.
func asSpec(v interface{}) (Spec, bool) {
	switch t := v.(type) {
	case map[string]interface{}:
		return Spec(t), true
	case Spec:
		return t, true
	}
	return nil, false
}

// loadStr loads a string field, returning alt when absent or empty.
func loadStr(s Spec, key, ident, alt string) (string, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return alt, nil
	}
	str, ok := v.(string)
	if !ok {
		return alt, errors.NewConfigError("'%s' must be a string. id=%q", key, ident)
	}
	if str == "" {
		return alt, nil
	}
	return str, nil
}

// loadInt loads an integer field, returning alt when absent or zero.
func loadInt(s Spec, key, ident string, alt int) (int, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return alt, nil
	}
	switch t := v.(type) {
	case int:
		if t == 0 {
			return alt, nil
		}
		return t, nil
	case int64:
		if t == 0 {
			return alt, nil
		}
		return int(t), nil
	case float64:
		if t == float64(int(t)) {
			if t == 0 {
				return alt, nil
			}
			return int(t), nil
		}
	}
	return alt, errors.NewConfigError("'%s' must be an integer. id=%q", key, ident)
}

// loadBool loads a boolean field, returning alt when absent.
func loadBool(s Spec, key, ident string, alt bool) (bool, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return alt, nil
	}
	b, ok := v.(bool)
	if !ok {
		return alt, errors.NewConfigError("'%s' must be a boolean. id=%q", key, ident)
	}
	return b, nil
}

// loadSpec loads a nested object field. When strToKey is non-empty, a plain
// string value is accepted as shorthand for {strToKey: value}.
func loadSpec(s Spec, key, ident, strToKey string) (Spec, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return Spec{}, nil
	}
	if str, ok := v.(string); ok && strToKey != "" {
		return Spec{strToKey: str}, nil
	}
	nested, ok := asSpec(v)
	if !ok {
		if strToKey != "" {
			return Spec{}, errors.NewConfigError("'%s' must be an object or string. id=%q", key, ident)
		}
		return Spec{}, errors.NewConfigError("'%s' must be an object. id=%q", key, ident)
	}
	return copySpec(nested), nil
}

// loadStrList loads a list-of-strings field. A plain string is accepted as a
// single-element list.
func loadStrList(s Spec, key, ident string) ([]string, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, nil
	}
	if str, ok := v.(string); ok {
		return []string{str}, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, errors.NewConfigError("'%s' must be a list of strings. id=%q", key, ident)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, errors.NewConfigError("'%s' must be a list of strings. id=%q", key, ident)
		}
		out = append(out, str)
	}
	return out, nil
}

// loadSpecList loads a list-of-objects field.
func loadSpecList(s Spec, key, ident string) ([]Spec, error) {
	v, ok := s[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, errors.NewConfigError("'%s' must be a list of objects. id=%q", key, ident)
	}
	out := make([]Spec, 0, len(items))
	for _, item := range items {
		nested, ok := asSpec(item)
		if !ok {
			return nil, errors.NewConfigError("'%s' must be a list of objects. id=%q", key, ident)
		}
		out = append(out, copySpec(nested))
	}
	return out, nil
}

// stringEntries keeps only the string-valued entries of a spec.
func stringEntries(s Spec) map[string]string {
	out := make(map[string]string, len(s))
	for k, v := range s {
		if str, ok := v.(string); ok {
			out[k] = str
		}
	}
	return out
}

// titleFromID derives a display name from an identifier: "my_id" → "My Id".
func titleFromID(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
