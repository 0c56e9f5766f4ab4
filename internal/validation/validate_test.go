package validation

import (
	"encoding/json"
	"reflect"
	"testing"
)

var testShape = Shape{
	String("name").Required().Length(1, 5),
	String("state").OneOf("active", "archived"),
	Boolean("flag").Default(false),
	Object("pageInfo",
		Integer("pageIndex").NonNegative().Default(0),
		Integer("pageSize").Positive().Default(50),
	),
}

func TestValidateAppliesDefaults(t *testing.T) {
	values, report := Validate(testShape, map[string]any{"name": "milk"})
	if !report.Valid() {
		t.Fatalf("Expected valid report, got %+v", report)
	}
	if values.String("name") != "milk" {
		t.Errorf("Expected name milk, got %q", values.String("name"))
	}
	if values.Has("state") {
		t.Error("Expected absent optional field without default to stay absent")
	}
	if values.Bool("flag") {
		t.Error("Expected flag to default to false")
	}
	if !values.Has("flag") {
		t.Error("Expected defaulted flag to be present")
	}
	page := values.Object("pageInfo")
	if page.Int("pageIndex") != 0 || page.Int("pageSize") != 50 {
		t.Errorf("Expected pageInfo defaults 0/50, got %v", page)
	}
}

func TestValidateMissingKeys(t *testing.T) {
	_, report := Validate(testShape, map[string]any{"name": nil})
	if report.Valid() {
		t.Fatal("Expected invalid report")
	}
	if !reflect.DeepEqual(report.MissingKeys, []string{"name"}) {
		t.Errorf("Expected missing [name], got %v", report.MissingKeys)
	}
	missing := report.ParamMap()["missingKeyMap"].(map[string]string)
	if _, ok := missing["name"]; !ok {
		t.Errorf("Expected name in missingKeyMap, got %v", missing)
	}
}

func TestValidateInvalidTypes(t *testing.T) {
	_, report := Validate(testShape, map[string]any{
		"name":     42,
		"flag":     "maybe",
		"pageInfo": map[string]any{"pageSize": "ten"},
	})
	want := map[string]string{
		"name":              "string",
		"flag":              "boolean",
		"pageInfo.pageSize": "integer",
	}
	if !reflect.DeepEqual(report.InvalidTypeKeyMap, want) {
		t.Errorf("Expected invalid types %v, got %v", want, report.InvalidTypeKeyMap)
	}
}

func TestValidateInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		key  string
	}{
		{"empty string", map[string]any{"name": ""}, "name"},
		{"too long", map[string]any{"name": "cabbage"}, "name"},
		{"not in enum", map[string]any{"name": "milk", "state": "deleted"}, "state"},
		{"zero page size", map[string]any{"name": "milk", "pageInfo": map[string]any{"pageSize": 0}}, "pageInfo.pageSize"},
		{"negative index", map[string]any{"name": "milk", "pageInfo": map[string]any{"pageIndex": -1}}, "pageInfo.pageIndex"},
		{"fractional integer", map[string]any{"name": "milk", "pageInfo": map[string]any{"pageSize": 2.5}}, "pageInfo.pageSize"},
		{"huge index", map[string]any{"name": "milk", "pageInfo": map[string]any{"pageIndex": "1e19"}}, "pageInfo.pageIndex"},
		{"huge page size", map[string]any{"name": "milk", "pageInfo": map[string]any{"pageSize": json.Number("10000000000")}}, "pageInfo.pageSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, report := Validate(testShape, tt.raw)
			if report.Valid() {
				t.Fatal("Expected invalid report")
			}
			if _, ok := report.InvalidValueKeyMap[tt.key]; !ok {
				t.Errorf("Expected %s in invalidValueKeyMap, got %v", tt.key, report.InvalidValueKeyMap)
			}
		})
	}
}

func TestValidateIntegerRange(t *testing.T) {
	values, report := Validate(testShape, map[string]any{
		"name":     "milk",
		"pageInfo": map[string]any{"pageIndex": json.Number("2147483647")},
	})
	if !report.Valid() {
		t.Fatalf("Expected the largest 32-bit index to be valid, got %v", report.InvalidValueKeyMap)
	}
	if got := values.Object("pageInfo").Int("pageIndex"); got != 2147483647 {
		t.Errorf("Expected pageIndex 2147483647, got %d", got)
	}

	_, report = Validate(testShape, map[string]any{
		"name":     "milk",
		"pageInfo": map[string]any{"pageIndex": 2147483648.0},
	})
	if _, ok := report.InvalidValueKeyMap["pageInfo.pageIndex"]; !ok {
		t.Errorf("Expected an index past the 32-bit range to be invalid, got %v", report.InvalidValueKeyMap)
	}
}

func TestValidateLengthCountsRunes(t *testing.T) {
	_, report := Validate(testShape, map[string]any{"name": "čaj☕"})
	if !report.Valid() {
		t.Errorf("Expected 4 runes to fit a 5 rune bound, got %v", report.InvalidValueKeyMap)
	}
}

func TestValidateUnsupportedKeysDoNotBlock(t *testing.T) {
	values, report := Validate(testShape, map[string]any{
		"name":     "milk",
		"color":    "white",
		"pageInfo": map[string]any{"cursor": "abc"},
	})
	if !report.Valid() {
		t.Fatalf("Expected unsupported keys alone to pass, got %+v", report)
	}
	want := []string{"color", "pageInfo.cursor"}
	if !reflect.DeepEqual(report.UnsupportedKeys, want) {
		t.Errorf("Expected unsupported %v, got %v", want, report.UnsupportedKeys)
	}
	if values.Has("color") {
		t.Error("Expected unsupported key to be dropped from values")
	}
}

func TestValidateCoercesStrings(t *testing.T) {
	values, report := Validate(testShape, map[string]any{
		"name":     "milk",
		"flag":     "true",
		"pageInfo": map[string]any{"pageIndex": "2", "pageSize": json.Number("10")},
	})
	if !report.Valid() {
		t.Fatalf("Expected coercible strings to pass, got %+v", report)
	}
	if !values.Bool("flag") {
		t.Error("Expected flag true")
	}
	page := values.Object("pageInfo")
	if page.Int("pageIndex") != 2 || page.Int("pageSize") != 10 {
		t.Errorf("Expected pageInfo 2/10, got %v", page)
	}
}

func TestValuesPointers(t *testing.T) {
	values := Values{"name": "milk", "done": false}
	if p := values.StringPtr("name"); p == nil || *p != "milk" {
		t.Errorf("Expected pointer to milk, got %v", p)
	}
	if p := values.StringPtr("note"); p != nil {
		t.Errorf("Expected nil for absent key, got %v", *p)
	}
	if p := values.BoolPtr("done"); p == nil || *p {
		t.Errorf("Expected pointer to false, got %v", p)
	}
	if p := values.BoolPtr("flag"); p != nil {
		t.Errorf("Expected nil for absent key, got %v", *p)
	}
}
