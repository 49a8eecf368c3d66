package archive

import (
	"reflect"
	"strings"
	"testing"
)

func TestGenerateSchemaObject(t *testing.T) {
	doc := `{"name": "x", "count": 3, "ratio": 1.5, "flag": true, "none": null}`
	schema, err := GenerateSchema(strings.NewReader(doc), "test")
	if err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}

	if schema["type"] != "object" {
		t.Fatalf("type = %v", schema["type"])
	}
	if schema["$schema"] != "http://json-schema.org/draft-07/schema#" {
		t.Fatalf("$schema = %v", schema["$schema"])
	}
	if schema["title"] != "test" {
		t.Fatalf("title = %v", schema["title"])
	}

	props := schema["properties"].(Schema)
	wantTypes := map[string]string{
		"name":  "string",
		"count": "integer",
		"ratio": "number",
		"flag":  "boolean",
		"none":  "null",
	}
	for key, want := range wantTypes {
		prop, ok := props[key].(Schema)
		if !ok {
			t.Fatalf("property %q missing", key)
		}
		if prop["type"] != want {
			t.Errorf("property %q type = %v, want %q", key, prop["type"], want)
		}
	}
}

func TestGenerateSchemaArrayMergesItemTypes(t *testing.T) {
	schema, err := GenerateSchema(strings.NewReader(`[1, "two", 3]`), "")
	if err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}
	items := schema["items"].(Schema)
	got, ok := items["type"].([]string)
	if !ok {
		t.Fatalf("items type = %T %v, want sorted list", items["type"], items["type"])
	}
	if !reflect.DeepEqual(got, []string{"integer", "string"}) {
		t.Fatalf("items type = %v", got)
	}
}

func TestGenerateSchemaArrayOfObjects(t *testing.T) {
	doc := `[{"id": "a"}, {"id": "b", "extra": 1}]`
	schema, err := GenerateSchema(strings.NewReader(doc), "")
	if err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}
	items := schema["items"].(Schema)
	if items["type"] != "object" {
		t.Fatalf("items type = %v", items["type"])
	}
	props := items["properties"].(Schema)
	if _, ok := props["id"]; !ok {
		t.Fatal("merged properties missing id")
	}
	if _, ok := props["extra"]; !ok {
		t.Fatal("merged properties missing extra")
	}
}

func TestGenerateSchemaEmptyArray(t *testing.T) {
	schema, err := GenerateSchema(strings.NewReader(`[]`), "")
	if err != nil {
		t.Fatalf("GenerateSchema: %v", err)
	}
	items, ok := schema["items"].(Schema)
	if !ok || len(items) != 0 {
		t.Fatalf("items = %v, want empty schema", schema["items"])
	}
}

func TestGenerateSchemaInvalidJSON(t *testing.T) {
	if _, err := GenerateSchema(strings.NewReader(`{broken`), ""); err == nil {
		t.Fatal("expected error for invalid json")
	}
}
