// Package bluesky is a minimal XRPC client for publishing video posts.
//
// It covers the three calls the uploader needs (createSession, uploadBlob,
// createRecord) plus the rich-text facet computation that turns the
// composed post into byte-offset tag annotations. Blob references returned
// by the PDS are carried opaquely so the exact CID encoding round-trips
// into the record unchanged.
package bluesky
