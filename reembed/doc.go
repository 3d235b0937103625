// Package reembed provides functionality for reembedding stored
// experience records with new or updated embedding models.
//
// This package supports batch processing of experience records, progress
// tracking, retry logic with exponential backoff, and vector
// normalization to keep cosine similarity search consistent.
package reembed
