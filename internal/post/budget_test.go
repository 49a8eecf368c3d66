package post

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFitBudgetNoPressure(t *testing.T) {
	header, description, tags := FitBudget("hdr ", "short", []string{"a", "b"}, DefaultBudget)
	if header != "hdr " || description != "short" {
		t.Fatalf("FitBudget changed fitting input: header=%q description=%q", header, description)
	}
	if !reflect.DeepEqual(tags, []string{"a", "b"}) {
		t.Fatalf("FitBudget tags = %v, want unchanged", tags)
	}
}

func TestFitBudgetRemovesFypFirst(t *testing.T) {
	header := strings.Repeat("h", 280)
	// header(280) + "#keep #FYPage #also"(19) + 3 separators = 302 > 300.
	// One removal must target the fyp-prefixed tag regardless of position.
	_, _, tags := FitBudget(header, "", []string{"keep", "FYPage", "also"}, DefaultBudget)
	if !reflect.DeepEqual(tags, []string{"keep", "also"}) {
		t.Fatalf("FitBudget tags = %v, want fyp tag removed first", tags)
	}
}

func TestFitBudgetPopsFromEnd(t *testing.T) {
	header := strings.Repeat("h", 290)
	_, _, tags := FitBudget(header, "", []string{"aa", "bb", "cc"}, DefaultBudget)
	if !reflect.DeepEqual(tags, []string{"aa", "bb"}) {
		t.Fatalf("FitBudget tags = %v, want last tag popped", tags)
	}
}

func TestFitBudgetTruncatesDescription(t *testing.T) {
	header := "Author: someone Handle: handle\n\n"
	description := strings.Repeat("d", 400)
	gotHeader, gotDescription, tags := FitBudget(header, description, []string{"cats"}, DefaultBudget)

	if gotHeader != header {
		t.Fatalf("header changed: %q", gotHeader)
	}
	remaining := DefaultBudget - nonDescriptionLength(header, tags)
	if utf8.RuneCountInString(gotDescription) != remaining {
		t.Fatalf("description length = %d, want %d", utf8.RuneCountInString(gotDescription), remaining)
	}
}

func TestFitBudgetTruncatesDescriptionByRunes(t *testing.T) {
	description := strings.Repeat("ü", 400)
	_, got, _ := FitBudget("", description, nil, DefaultBudget)
	if utf8.RuneCountInString(got) != DefaultBudget {
		t.Fatalf("rune count = %d, want %d", utf8.RuneCountInString(got), DefaultBudget)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune")
	}
}

func TestFitBudgetHeaderAloneOverBudget(t *testing.T) {
	header := strings.Repeat("h", 350)
	gotHeader, gotDescription, tags := FitBudget(header, "desc", []string{"a"}, DefaultBudget)
	if len(tags) != 0 {
		t.Fatalf("tags = %v, want all removed", tags)
	}
	if utf8.RuneCountInString(gotHeader) != DefaultBudget {
		t.Fatalf("header length = %d, want %d", utf8.RuneCountInString(gotHeader), DefaultBudget)
	}
	if gotDescription != "" {
		t.Fatalf("description = %q, want empty", gotDescription)
	}
}

func TestSmallBudgetSkipsInjectionThenPops(t *testing.T) {
	tags := []string{"verylonghashtag1", "verylonghashtag2", "verylonghashtag3"}
	header := strings.Repeat("h", 60)
	description := strings.Repeat("d", 30)
	const budget = 100

	// No room for the defaults at this budget.
	injected := InjectDefaults(tags, header, description, DefaultTags, budget)
	if !reflect.DeepEqual(injected, tags) {
		t.Fatalf("InjectDefaults = %v, want unchanged", injected)
	}

	// The fitter then pops from the end until the total fits.
	_, _, fitted := FitBudget(header, description, injected, budget)
	if !reflect.DeepEqual(fitted, []string{"verylonghashtag1", "verylonghashtag2"}) {
		t.Fatalf("FitBudget tags = %v", fitted)
	}
	if total := nonDescriptionLength(header, fitted); total > budget {
		t.Fatalf("total %d exceeds budget", total)
	}
}

func TestFitBudgetResultFits(t *testing.T) {
	headers := []string{"", "Author: a Handle: b\n\n", strings.Repeat("h", 310)}
	descriptions := []string{"", "short", strings.Repeat("d", 500)}
	tagSets := [][]string{nil, {"one"}, {"fypfyp", "second", "third", "fourth"}}

	for _, header := range headers {
		for _, description := range descriptions {
			for _, tags := range tagSets {
				gotHeader, gotDescription, gotTags := FitBudget(header, description, tags, DefaultBudget)
				total := nonDescriptionLength(gotHeader, gotTags) + utf8.RuneCountInString(gotDescription)
				if total > DefaultBudget {
					t.Fatalf("FitBudget(%d,%d,%d tags) total %d exceeds budget",
						len(header), len(description), len(tags), total)
				}
			}
		}
	}
}
