package post

import (
	"reflect"
	"strings"
	"testing"
)

func TestInjectDefaultsEmptyTags(t *testing.T) {
	got := InjectDefaults(nil, "header", "description", DefaultTags, DefaultBudget)
	if !reflect.DeepEqual(got, DefaultTags) {
		t.Fatalf("InjectDefaults(nil tags) = %v, want %v", got, DefaultTags)
	}

	// Defaults are appended even when the result cannot fit the budget.
	longHeader := strings.Repeat("h", DefaultBudget+50)
	got = InjectDefaults(nil, longHeader, "", DefaultTags, DefaultBudget)
	if !reflect.DeepEqual(got, DefaultTags) {
		t.Fatalf("InjectDefaults(nil tags, long header) = %v, want %v", got, DefaultTags)
	}
}

func TestInjectDefaultsWithRoom(t *testing.T) {
	got := InjectDefaults([]string{"cats"}, "hdr ", "short description", DefaultTags, DefaultBudget)
	want := []string{"cats", "meme", "tiktok", "archive"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InjectDefaults = %v, want %v", got, want)
	}
}

func TestInjectDefaultsNoRoom(t *testing.T) {
	description := strings.Repeat("d", DefaultBudget)
	got := InjectDefaults([]string{"cats"}, "", description, DefaultTags, DefaultBudget)
	want := []string{"cats"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InjectDefaults over budget = %v, want %v", got, want)
	}
}

func TestInjectDefaultsBoundary(t *testing.T) {
	// Hypothetical length: description + rendered tags + rendered defaults
	// + one separator per tag on both lists. Build a description that lands
	// exactly on the budget, then one character over.
	tags := []string{"cats"}
	overhead := runeLen(renderTags(tags)) + runeLen(renderTags(DefaultTags)) + len(tags) + len(DefaultTags)
	exact := strings.Repeat("d", DefaultBudget-overhead)

	got := InjectDefaults(tags, "", exact, DefaultTags, DefaultBudget)
	if len(got) != 4 {
		t.Fatalf("InjectDefaults at exact budget = %v, want defaults appended", got)
	}

	got = InjectDefaults(tags, "", exact+"d", DefaultTags, DefaultBudget)
	if !reflect.DeepEqual(got, tags) {
		t.Fatalf("InjectDefaults one over budget = %v, want %v", got, tags)
	}
}

func TestInjectDefaultsDeduplicates(t *testing.T) {
	got := InjectDefaults([]string{"a", "b", "a", "c", "b"}, "", "", []string{"b", "d"}, DefaultBudget)
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("InjectDefaults dedupe = %v, want %v", got, want)
	}
}

func TestInjectDefaultsDedupeOnlyWhenAppending(t *testing.T) {
	// Without room for the defaults, existing duplicates survive.
	description := strings.Repeat("d", DefaultBudget)
	got := InjectDefaults([]string{"a", "a"}, "", description, DefaultTags, DefaultBudget)
	if !reflect.DeepEqual(got, []string{"a", "a"}) {
		t.Fatalf("InjectDefaults kept tags = %v, want duplicates preserved", got)
	}
}

func TestInjectDefaultsCountsRunes(t *testing.T) {
	// Multi-byte characters count once each.
	description := strings.Repeat("ß", DefaultBudget)
	got := InjectDefaults([]string{"cats"}, "", description, DefaultTags, DefaultBudget)
	if !reflect.DeepEqual(got, []string{"cats"}) {
		t.Fatalf("InjectDefaults rune counting = %v, want no injection", got)
	}
}
