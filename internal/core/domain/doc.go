// Package domain holds the values that flow through a research run: search
// hits, fetched pages, extracted documents, chunks and their embeddings,
// retrieved contexts and the final answer with citations. It also defines
// the validated Config and the sentinel errors adapters map onto.
//
// Nothing here imports another internal package.
package domain
