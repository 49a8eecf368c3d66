// Package store persists the imported TikTok archive and tracks which
// videos have been republished.
//
// The Store interface exposes the import upserts, candidate selection, and
// the upload-state transition. Two adapters implement it: sqlite
// (modernc.org/sqlite) and postgres (jackc/pgx via database/sql). Each
// adapter owns its own SQL text; there is no cross-dialect string
// substitution.
//
// Videos move through exactly two states: pending (uploaded = false, set at
// import) and uploaded (terminal). MarkUploaded is idempotent and reports
// whether the call actually flipped a row, which callers use to detect
// repeated finalization. Records are never deleted.
package store
