// Package archive reads a TikTok export's facts.json and loads it into the
// store.
//
// Import order follows the referential dependencies: authors before videos,
// videos before the liked and bookmarked marks. Importing is idempotent:
// rerunning over the same export refreshes counters and never resets the
// uploaded flag. The package also carries the schema inference used by the
// schema command to describe unfamiliar export revisions.
package archive
