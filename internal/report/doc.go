// Package report folds per-page verdicts into a multi-page report and
// ships it to the bruni reporting backend.
//
// Multi-page reports travel as sequential chunks of one page report each,
// tagged with chunk_index/total_chunks and grouped server-side by the
// test_id returned for the first chunk. A failed chunk aborts the send;
// there is no partial-silent-success path.
package report
