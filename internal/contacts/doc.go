// Package contacts implements the contact CSV import pipeline.
//
// The pipeline has three stages, each a pure function over its inputs:
//
//	text -> Tokenize -> rows -> MapRows -> (records, row errors) -> Merge -> collection
//
// None of the stages retain state between calls or mutate their arguments,
// so they are safe to call concurrently on different inputs. Reading the
// source text and persisting the merged collection belong to the caller
// (see the core package).
//
// # Row errors
//
// A malformed data row never fails the batch. It is reported as a [RowError]
// carrying the 1-based row number (the header is row 1) and the row is
// skipped. The only batch-level condition is zero rows after tokenizing,
// reported as a single "Empty CSV" error.
package contacts
