// Package core runs contact imports for the mobile front-end.
//
// It sits between the transport layer and the pure pipeline in the contacts
// package. The pipeline never does I/O; this package owns everything around
// it:
//
//   - Reading the source: size limit, spreadsheet rejection, BOM handling and
//     UTF-8 repair ([ReadSource]).
//   - Storage of the single user's contact collection behind [ContactStore],
//     with an in-memory implementation and a PostgreSQL one.
//   - Sequencing: an import loads the current collection, merges and saves it
//     inside one [ContactStore.Update] call, so concurrent imports never
//     interleave.
//   - Concurrency control ([ImportLimiter]) and user-facing error mapping
//     ([MapError]).
//
// # Import flow
//
//  1. Client calls [Service.Preview] to see what an import would do
//  2. Client confirms with [Service.Import], which persists the merge
//  3. The result stays available through [Service.ImportResult] for a while
//
// # Error Handling
//
// Row-level problems are data (contacts.RowError) and never surface as Go
// errors. Batch failures (oversized file, spreadsheet, empty body, busy,
// storage) are returned as errors and mapped to user messages with support
// codes by [MapError]:
//
//   - FILE001, FILE002, FILE004, FILE005: file errors (size, format, missing, empty)
//   - UPL001-UPL005: import session errors (not found, busy, bad option, cancelled, timeout)
//   - DB001-DB005: storage errors
//   - RATE001: rate limiting
package core
