// Package driven declares the infrastructure the research pipeline calls
// out to.
//
// Acquisition: SearchProvider (SerpAPI, DuckDuckGo, Google Custom Search,
// GitHub), PageFetcher and Extractor.
//
// Indexing: Chunker, EmbeddingService and VectorStore. RunStore records
// each ingest against its namespace.
//
// Answering: LLMService.
//
// Settings: ConfigStore, PromptStore and AIConfigValidator.
//
// Only the domain package may be imported from here.
package driven
