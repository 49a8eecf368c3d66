// Package config loads, normalizes, and validates tikvault configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BLUESKY_PASSWORD. The Config type centralizes every knob the CLI needs,
// so the archive directory, database coordinates, and external service
// credentials are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
