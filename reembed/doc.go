// Package reembed rebuilds the persisted embedding cache from scratch.
//
// The search engine re-embeds incrementally and fails the whole build on the
// first embedding error, which is the right behavior online but painful for
// an operator swapping embedding models over a large corpus. This package is
// the offline alternative: it walks every stored place in batches, retries
// transient embedding failures with exponential backoff, and reports
// progress while it works.
package reembed
