package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Report collects the findings of a validation pass. Keys of nested fields are
// dotted paths, e.g. "pageInfo.pageSize".
type Report struct {
	MissingKeys        []string
	InvalidTypeKeyMap  map[string]string
	InvalidValueKeyMap map[string]string
	UnsupportedKeys    []string
}

// Valid reports whether the input may proceed. Unsupported keys alone never
// block a request.
func (r *Report) Valid() bool {
	return len(r.MissingKeys) == 0 && len(r.InvalidTypeKeyMap) == 0 && len(r.InvalidValueKeyMap) == 0
}

// ParamMap renders the blocking findings grouped by category
func (r *Report) ParamMap() map[string]any {
	missing := make(map[string]string, len(r.MissingKeys))
	for _, key := range r.MissingKeys {
		missing[key] = "Key is required."
	}
	return map[string]any{
		"missingKeyMap":      missing,
		"invalidTypeKeyMap":  r.InvalidTypeKeyMap,
		"invalidValueKeyMap": r.InvalidValueKeyMap,
	}
}

// Validate checks raw against shape and returns the normalized values with
// defaults applied. Values are only meaningful when the report is Valid.
func Validate(shape Shape, raw map[string]any) (Values, *Report) {
	report := &Report{
		InvalidTypeKeyMap:  map[string]string{},
		InvalidValueKeyMap: map[string]string{},
	}
	values := validateObject(shape, raw, "", report)
	sort.Strings(report.MissingKeys)
	sort.Strings(report.UnsupportedKeys)
	return values, report
}

func validateObject(shape Shape, raw map[string]any, prefix string, report *Report) Values {
	out := Values{}
	declared := make(map[string]struct{}, len(shape))

	for _, field := range shape {
		declared[field.Name] = struct{}{}
		path := joinPath(prefix, field.Name)

		value, present := raw[field.Name]
		if present && value == nil {
			present = false
		}

		if !present {
			switch {
			case field.required:
				report.MissingKeys = append(report.MissingKeys, path)
			case field.Type == TypeObject && field.hasNestedDefaults():
				out[field.Name] = validateObject(field.fields, nil, path, report)
			case field.hasDefault:
				out[field.Name] = field.def
			}
			continue
		}

		coerced, ok := coerce(field.Type, value)
		if !ok {
			report.InvalidTypeKeyMap[path] = string(field.Type)
			continue
		}

		if field.Type == TypeObject {
			out[field.Name] = validateObject(field.fields, coerced.(map[string]any), path, report)
			continue
		}

		normalized, reason := field.check(coerced)
		if reason != "" {
			report.InvalidValueKeyMap[path] = reason
			continue
		}
		out[field.Name] = normalized
	}

	for key := range raw {
		if _, ok := declared[key]; !ok {
			report.UnsupportedKeys = append(report.UnsupportedKeys, joinPath(prefix, key))
		}
	}

	return out
}

// coerce converts value to the primitive type expected, accepting
// numeric-looking and boolean-looking strings for non-string fields
func coerce(t Type, value any) (any, bool) {
	switch t {
	case TypeString:
		s, ok := value.(string)
		return s, ok

	case TypeInteger, TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			f, err := v.Float64()
			return f, err == nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return f, true
		}
		return nil, false

	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			return b, err == nil
		}
		return nil, false

	case TypeObject:
		m, ok := value.(map[string]any)
		return m, ok
	}
	return nil, false
}

// check applies the semantic constraints and returns the final value or a
// human-readable reason
func (f Field) check(value any) (any, string) {
	switch f.Type {
	case TypeString:
		s := value.(string)
		n := utf8.RuneCountInString(s)
		if n < f.minLen {
			if f.minLen == 1 {
				return nil, "String must not be empty."
			}
			return nil, fmt.Sprintf("String must be at least %d characters long.", f.minLen)
		}
		if f.maxLen > 0 && n > f.maxLen {
			return nil, fmt.Sprintf("String must be at most %d characters long.", f.maxLen)
		}
		if len(f.enum) > 0 && !slices.Contains(f.enum, s) {
			return nil, fmt.Sprintf("Value must be one of: %s.", strings.Join(f.enum, ", "))
		}
		return s, ""

	case TypeInteger, TypeNumber:
		n := value.(float64)
		if f.Type == TypeInteger {
			if n != math.Trunc(n) {
				return nil, "Value must be an integer."
			}
			if n > math.MaxInt32 || n < math.MinInt32 {
				return nil, fmt.Sprintf("Value must be between %d and %d.", math.MinInt32, math.MaxInt32)
			}
		}
		if f.positive && n <= 0 {
			return nil, "Value must be greater than 0."
		}
		if f.nonNegative && n < 0 {
			return nil, "Value must be 0 or greater."
		}
		if f.Type == TypeInteger {
			return int(n), ""
		}
		return n, ""
	}
	return value, ""
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
