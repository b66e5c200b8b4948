// Package strategy implements the chunking strategy catalog and selector.
//
// Six strategies cover the common shapes of Markdown content, tried in
// priority order: code, mixed, list, table, structural, sentences. Each
// strategy reports whether it can handle a document (CanHandle), how well
// its shape matches (Quality), and produces chunks from a shared analysis
// (Apply). The sentence strategy accepts everything and acts as the final
// fallback; if even it fails the selector emits a single flagged chunk so
// chunking never loses content.
//
// All strategies share the same growth policy: accumulate units until the
// next one would push the chunk past the size limit, never closing below
// the minimum unless forced. Atomic units (code blocks, tables, top-level
// list items) are kept whole where configuration allows.
package strategy
