// Package scoring computes vocabulary, style and readability metrics for a
// tokenised text and grades drift between two metric snapshots.
//
// Every function here is pure. Empty input yields zero-valued metrics,
// never NaN or an error.
package scoring
