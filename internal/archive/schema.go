package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Schema is a JSON-schema fragment produced by inference. Only the keys
// inference emits are populated: type, items, properties, anyOf.
type Schema map[string]any

// GenerateSchema decodes a JSON document and infers a draft-07 schema for
// it. Integer and number are distinguished by the literal's form.
func GenerateSchema(r io.Reader, title string) (Schema, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var data any
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	schema := inferSchema(data)
	schema["$schema"] = "http://json-schema.org/draft-07/schema#"
	if title != "" {
		schema["title"] = title
	}
	return schema, nil
}

func jsonType(value any) string {
	switch v := value.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		if strings.ContainsAny(v.String(), ".eE") {
			return "number"
		}
		return "integer"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

func inferSchema(data any) Schema {
	kind := jsonType(data)
	schema := Schema{"type": kind}

	switch kind {
	case "object":
		object := data.(map[string]any)
		properties := Schema{}
		for key, value := range object {
			properties[key] = inferSchema(value)
		}
		schema["properties"] = properties
	case "array":
		items := data.([]any)
		if len(items) == 0 {
			schema["items"] = Schema{}
			return schema
		}
		var merged Schema
		for _, item := range items {
			merged = mergeSchemas(merged, inferSchema(item))
		}
		schema["items"] = merged
	}
	return schema
}

const primitiveTypes = "string number integer boolean null"

func isPrimitiveType(kind string) bool {
	for _, candidate := range strings.Fields(primitiveTypes) {
		if kind == candidate {
			return true
		}
	}
	return false
}

func schemaTypes(schema Schema) []string {
	switch v := schema["type"].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		var types []string
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}

// mergeSchemas combines two inferred schemas. Mixed primitive types become
// a sorted type list; structurally different schemas fall back to anyOf.
func mergeSchemas(a, b Schema) Schema {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if schemasEqual(a, b) {
		return a
	}

	typeSet := map[string]bool{}
	for _, kind := range schemaTypes(a) {
		typeSet[kind] = true
	}
	for _, kind := range schemaTypes(b) {
		typeSet[kind] = true
	}
	types := make([]string, 0, len(typeSet))
	allPrimitive := true
	for kind := range typeSet {
		types = append(types, kind)
		if !isPrimitiveType(kind) {
			allPrimitive = false
		}
	}
	sort.Strings(types)

	merged := Schema{}
	switch {
	case len(types) == 1:
		merged["type"] = types[0]
	case allPrimitive:
		merged["type"] = types
	default:
		variants := dedupeVariants(append(anyOfVariants(a), anyOfVariants(b)...))
		if len(variants) == 1 {
			return variants[0]
		}
		merged["anyOf"] = variants
	}

	mergeItems(merged, a, b)
	mergeProperties(merged, a, b)
	return merged
}

func anyOfVariants(schema Schema) []Schema {
	if existing, ok := schema["anyOf"].([]Schema); ok {
		return existing
	}
	return []Schema{schema}
}

func dedupeVariants(variants []Schema) []Schema {
	var unique []Schema
	seen := map[string]bool{}
	for _, variant := range variants {
		if kind, ok := variant["type"].(string); ok && isPrimitiveType(kind) && len(variant) == 1 {
			if seen[kind] {
				continue
			}
			seen[kind] = true
		}
		unique = append(unique, variant)
	}
	return unique
}

func mergeItems(merged, a, b Schema) {
	if merged["type"] != "array" && merged["anyOf"] == nil {
		if kinds, ok := merged["type"].([]string); !ok || !containsString(kinds, "array") {
			return
		}
	}
	itemsA, okA := a["items"].(Schema)
	itemsB, okB := b["items"].(Schema)
	switch {
	case okA && okB:
		merged["items"] = mergeSchemas(itemsA, itemsB)
	case okA:
		merged["items"] = itemsA
	case okB:
		merged["items"] = itemsB
	}
}

func mergeProperties(merged, a, b Schema) {
	if merged["type"] != "object" && merged["anyOf"] == nil {
		if kinds, ok := merged["type"].([]string); !ok || !containsString(kinds, "object") {
			return
		}
	}
	propsA, _ := a["properties"].(Schema)
	propsB, _ := b["properties"].(Schema)
	if propsA == nil && propsB == nil {
		return
	}

	keys := map[string]bool{}
	for key := range propsA {
		keys[key] = true
	}
	for key := range propsB {
		keys[key] = true
	}

	props := Schema{}
	for key := range keys {
		schemaA, _ := propsA[key].(Schema)
		schemaB, _ := propsB[key].(Schema)
		if combined := mergeSchemas(schemaA, schemaB); combined != nil {
			props[key] = combined
		}
	}
	if len(props) > 0 {
		merged["properties"] = props
	}
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func schemasEqual(a, b Schema) bool {
	encodedA, errA := json.Marshal(a)
	encodedB, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(encodedA) == string(encodedB)
}
