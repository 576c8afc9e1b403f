// Package html extracts readable article text from web pages.
//
// Extraction is heuristic: boilerplate is stripped, candidate content
// containers are scored by paragraph mass, link density and layout hints,
// and the best container's paragraphs become the document text. Pages
// without a convincing container fall back to a truncated body text.
package html
