package validator

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Required validates that a value was supplied at all.
func Required(field string, present bool) Rule {
	return Rule{
		Check: func() bool { return present },
		Error: ValidationError{Field: field, Message: "field is required"},
	}
}

// IsString validates that value holds a string.
func IsString(field string, value any) Rule {
	return Rule{
		Check: func() bool {
			_, ok := value.(string)
			return ok
		},
		Error: ValidationError{Field: field, Message: "must be a string"},
	}
}

// IsObject validates that value is a plain object: a string-keyed map, never a list.
func IsObject(field string, value any) Rule {
	return Rule{
		Check: func() bool {
			_, ok := AsObject(value)
			return ok
		},
		Error: ValidationError{Field: field, Message: "must be a plain object"},
	}
}

// HasKeys validates that obj contains every key.
func HasKeys(field string, obj map[string]any, keys ...string) Rule {
	return Rule{
		Check: func() bool {
			for _, k := range keys {
				if _, ok := obj[k]; !ok {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must contain: %s", strings.Join(keys, ", ")),
		},
	}
}

// ExactKeys validates that obj contains exactly the given keys, no more and no less.
func ExactKeys(field string, obj map[string]any, keys ...string) Rule {
	return Rule{
		Check: func() bool {
			if len(obj) != len(keys) {
				return false
			}
			for k := range obj {
				if !slices.Contains(keys, k) {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must contain exactly: %s", strings.Join(keys, ", ")),
		},
	}
}

// Each builds one rule per map entry, in key order so aggregated errors are stable.
func Each[V any](obj map[string]V, build func(key string, value V) []Rule) []Rule {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rules []Rule
	for _, k := range keys {
		rules = append(rules, build(k, obj[k])...)
	}
	return rules
}

// AsObject returns value as a string-keyed map when it is one.
func AsObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, v != nil
	case map[string]string:
		if v == nil {
			return nil, false
		}
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	default:
		return nil, false
	}
}
