// Package services holds the research pipeline: web search with retries,
// ingest into per-namespace collections, retrieval, answer synthesis and
// the research agent that ties them together. Everything outside the
// process is reached through the driven ports.
package services
