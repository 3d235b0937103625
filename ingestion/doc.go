// Package ingestion provides pipeline orchestration for experience records.
//
// The Pipeline type manages the ingestion workflow, including:
//   - Backfilling canonical-language titles and content via translation
//   - Persisting records with content-derived IDs
//   - Generating unit-normalized embeddings asynchronously
//   - Indexing records into the lexical index asynchronously
//
// Processing is performed concurrently using worker pools to maximize throughput.
// Errors during async processing are logged but do not fail the ingestion operation.
package ingestion
