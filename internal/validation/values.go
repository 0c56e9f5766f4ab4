package validation

// Values is validated, normalized input. Accessors return zero values for
// absent keys; use Has or the pointer accessors to distinguish absence.
type Values map[string]any

// Has reports whether key is present after validation
func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

// StringPtr returns nil when key is absent
func (v Values) StringPtr(key string) *string {
	s, ok := v[key].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Bool(key string) bool {
	b, _ := v[key].(bool)
	return b
}

// BoolPtr returns nil when key is absent
func (v Values) BoolPtr(key string) *bool {
	b, ok := v[key].(bool)
	if !ok {
		return nil
	}
	return &b
}

func (v Values) Int(key string) int {
	n, _ := v[key].(int)
	return n
}

// Object returns the nested values of key, or empty Values
func (v Values) Object(key string) Values {
	o, _ := v[key].(Values)
	if o == nil {
		return Values{}
	}
	return o
}
