// Package post turns a raw video description into a publishable post that
// fits a hard character budget.
//
// The pipeline runs in a fixed order: Extract splits hashtags out of the
// description, an optional Refiner substitutes a curated tag list,
// InjectDefaults appends the fallback tag set when it fits, FitBudget
// shrinks tags and truncates the description until the rendered post fits,
// and Compose assembles the final segments. Extract, InjectDefaults,
// FitBudget, and Compose are pure functions; only the Refiner talks to the
// network, and it always degrades to a deterministic local fallback.
//
// All length accounting is in runes, matching the platform's character
// limit rather than byte length.
package post
