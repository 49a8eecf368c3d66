// Package llm wraps the chat-completion API used for hashtag refinement.
//
// The client issues exactly one synchronous request per call; retry policy
// belongs to the caller, and the tag refiner has none: it falls back to
// the locally extracted tags instead.
package llm
