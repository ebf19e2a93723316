// Package match implements the tier-1 statistical matcher: a small TF-IDF
// index over (action label, example phrase) documents scored by cosine
// similarity.
//
// An Index is immutable once built. Rebuilds construct a fresh Index from
// scratch and the owner swaps the reference; concurrent readers never see
// a half-built index. The corpus is a few hundred short documents, so a
// wholesale rebuild is cheap and correct beats incremental here.
package match

import (
	"math"
	"sort"
)

// cosineEpsilon guards the cosine denominator so two zero vectors score 0
// instead of dividing by zero.
const cosineEpsilon = 1e-10

// Document is one (label, phrase) index entry. Labels from the learning
// cache are namespaced (CACHED:<phrase>); built-in labels are bare action
// names.
type Document struct {
	Label  string
	Phrase string
}

// Match is one ranked result.
type Match struct {
	Score float64
	Label string
	// Example is the phrase that produced the score; a single best example
	// represents its action.
	Example string
}

// Index is a built TF-IDF index. Safe for concurrent readers.
type Index struct {
	docs []Document
	idf  map[string]float64
	vecs []map[string]float64
}

// BuildIndex tokenizes every document, computes smoothed IDF
// (ln((N+1)/(df+1)) + 1) over the corpus and a TF-IDF vector per document.
func BuildIndex(docs []Document) *Index {
	ix := &Index{
		docs: docs,
		idf:  make(map[string]float64),
		vecs: make([]map[string]float64, len(docs)),
	}
	if len(docs) == 0 {
		return ix
	}

	tokenized := make([][]string, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = Tokenize(doc.Phrase)
		seen := make(map[string]struct{}, len(tokenized[i]))
		for _, tok := range tokenized[i] {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := float64(len(docs))
	for term, freq := range df {
		ix.idf[term] = math.Log((n+1)/float64(freq+1)) + 1
	}
	for i, tokens := range tokenized {
		ix.vecs[i] = ix.vector(tokens)
	}
	return ix
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.docs)
}

// Query scores every document against the query by cosine similarity and
// returns up to topK results, deduplicated by label: the highest-scoring
// example per label wins.
func (ix *Index) Query(query string, topK int) []Match {
	tokens := Tokenize(query)
	if len(tokens) == 0 || len(ix.docs) == 0 {
		return nil
	}
	qvec := ix.vector(tokens)

	scored := make([]Match, 0, len(ix.docs))
	for i, dvec := range ix.vecs {
		score := cosine(qvec, dvec)
		if score <= 0 {
			continue
		}
		scored = append(scored, Match{
			Score:   score,
			Label:   ix.docs[i].Label,
			Example: ix.docs[i].Phrase,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	seen := make(map[string]struct{})
	deduped := make([]Match, 0, topK)
	for _, m := range scored {
		if _, dup := seen[m.Label]; dup {
			continue
		}
		seen[m.Label] = struct{}{}
		deduped = append(deduped, m)
		if len(deduped) >= topK {
			break
		}
	}
	return deduped
}

// vector builds a term-frequency vector weighted by the index's IDF map.
// Terms unseen at build time get a neutral weight of 1.
func (ix *Index) vector(tokens []string) map[string]float64 {
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	if total == 0 {
		total = 1
	}
	vec := make(map[string]float64, len(tf))
	for term, count := range tf {
		idf, ok := ix.idf[term]
		if !ok {
			idf = 1.0
		}
		vec[term] = (float64(count) / total) * idf
	}
	return vec
}

func cosine(a, b map[string]float64) float64 {
	var dot float64
	for term, av := range a {
		if bv, ok := b[term]; ok {
			dot += av * bv
		}
	}
	return dot / (magnitude(a) * magnitude(b))
}

func magnitude(v map[string]float64) float64 {
	var sum float64
	for _, val := range v {
		sum += val * val
	}
	if m := math.Sqrt(sum); m > cosineEpsilon {
		return m
	}
	return cosineEpsilon
}
