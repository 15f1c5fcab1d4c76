// Package search implements hybrid ranking over the place corpus.
//
// Three pieces cooperate: the text normalizer turns a Place into a single
// descriptive string, the SemanticIndex embeds those strings (with a
// persisted incremental cache), and the LexicalIndex weights them with
// TF-IDF over unigrams and bigrams. The Engine blends both similarity
// signals per query, applies locality and radius filters, and returns the
// top candidates in deterministic order.
package search
