// Package uploader runs one publish attempt end to end: pick the next
// pending video, compose the post within the character budget, publish it,
// and mark the record uploaded.
//
// Records whose media file is missing are poison: they are marked uploaded
// without publishing so the queue never wedges on them. Exactly one video
// is processed per run; looping belongs to the caller.
package uploader
