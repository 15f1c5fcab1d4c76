// Copyright 2025 Tastetrail Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"math"
)

// LexicalOptions configures vocabulary pruning for the lexical index.
type LexicalOptions struct {
	// MinDocCount excludes terms occurring in fewer documents.
	MinDocCount int
	// MaxDocFraction excludes terms occurring in more than this fraction
	// of documents.
	MaxDocFraction float64
}

// DefaultLexicalOptions returns the default pruning thresholds.
func DefaultLexicalOptions() LexicalOptions {
	return LexicalOptions{
		MinDocCount:    1,
		MaxDocFraction: 1.0,
	}
}

// LexicalIndex is a TF-IDF weighting model over unigrams and bigrams.
//
// The index is built once per corpus change and is immutable afterwards;
// queries are projected with the trained vocabulary only, so terms unseen
// at build time contribute nothing. Rebuilds are full, not incremental.
type LexicalIndex struct {
	vocabulary map[string]int
	idf        []float64
	rows       []map[int]float64 // L2-normalized TF-IDF rows, one per document
}

// NewLexicalIndex builds a lexical index over the corpus.
// An empty corpus yields an index that scores everything zero.
func NewLexicalIndex(corpus []string, opts LexicalOptions) *LexicalIndex {
	docTerms := make([][]string, len(corpus))
	docCount := make(map[string]int)
	for i, doc := range corpus {
		terms := ngrams(tokenize(doc))
		docTerms[i] = terms

		seen := make(map[string]bool, len(terms))
		for _, term := range terms {
			if !seen[term] {
				seen[term] = true
				docCount[term]++
			}
		}
	}

	// Prune the vocabulary
	n := len(corpus)
	vocabulary := make(map[string]int)
	var idf []float64
	for term, count := range docCount {
		if count < opts.MinDocCount {
			continue
		}
		if n > 0 && float64(count)/float64(n) > opts.MaxDocFraction {
			continue
		}
		vocabulary[term] = len(idf)
		// Smoothed IDF so no term weight is ever zero or negative
		idf = append(idf, math.Log(float64(1+n)/float64(1+count))+1)
	}

	idx := &LexicalIndex{
		vocabulary: vocabulary,
		idf:        idf,
		rows:       make([]map[int]float64, len(corpus)),
	}
	for i, terms := range docTerms {
		idx.rows[i] = idx.project(terms)
	}
	return idx
}

// Scores returns the cosine similarity of the query against every corpus
// row, in corpus order. Values are in [0, 1].
func (idx *LexicalIndex) Scores(query string) []float64 {
	queryVector := idx.project(ngrams(tokenize(query)))

	scores := make([]float64, len(idx.rows))
	if len(queryVector) == 0 {
		return scores
	}
	for i, row := range idx.rows {
		scores[i] = sparseDot(queryVector, row)
	}
	return scores
}

// VocabularySize returns the number of retained terms.
func (idx *LexicalIndex) VocabularySize() int {
	return len(idx.vocabulary)
}

// project builds the L2-normalized TF-IDF vector of a term sequence using
// the trained vocabulary. Unknown terms are ignored.
func (idx *LexicalIndex) project(terms []string) map[int]float64 {
	vector := make(map[int]float64)
	for _, term := range terms {
		if col, ok := idx.vocabulary[term]; ok {
			vector[col]++
		}
	}
	if len(vector) == 0 {
		return vector
	}

	var norm float64
	for col, tf := range vector {
		weighted := tf * idx.idf[col]
		vector[col] = weighted
		norm += weighted * weighted
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for col := range vector {
			vector[col] /= norm
		}
	}
	return vector
}

// sparseDot computes the dot product of two sparse vectors.
func sparseDot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for col, value := range a {
		sum += value * b[col]
	}
	return sum
}
