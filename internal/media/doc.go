// Package media locates video files inside an extracted TikTok export and
// probes them with ffprobe.
//
// Exports have shuffled their directory layout across schema versions, so
// Locate checks the known candidate locations first and falls back to a
// recursive walk of the archive root. Probe shells out to ffprobe for the
// duration and frame dimensions the publish embed needs.
package media
