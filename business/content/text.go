package content

import (
	"math"
	"strings"
	"unicode"
)

// stopwords dropped during tokenization; everything left is treated as a
// content-bearing term.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"with": true, "in": true, "on": true, "for": true, "to": true, "is": true,
	"it": true, "its": true, "this": true, "that": true, "our": true,
	"your": true, "served": true, "made": true, "from": true, "fresh": true,
}

// tokenize lower-cases, strips punctuation and drops stopwords and short
// tokens.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, lowered)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 3 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}

	return tokens
}

// tfidfVectors builds TF-IDF vectors for a set of documents sharing one
// vocabulary. Index 0 is conventionally the user corpus, the rest are items.
func tfidfVectors(docs []string) []map[string]float64 {
	termFreqs := make([]map[string]float64, len(docs))
	docFreq := make(map[string]int)

	for i, doc := range docs {
		tf := make(map[string]float64)
		tokens := tokenize(doc)
		for _, t := range tokens {
			tf[t]++
		}
		if len(tokens) > 0 {
			for t := range tf {
				tf[t] /= float64(len(tokens))
				docFreq[t]++
			}
		}
		termFreqs[i] = tf
	}

	n := float64(len(docs))
	vectors := make([]map[string]float64, len(docs))
	for i, tf := range termFreqs {
		vec := make(map[string]float64, len(tf))
		for t, f := range tf {
			idf := math.Log((n+1)/(float64(docFreq[t])+1)) + 1
			vec[t] = f * idf
		}
		vectors[i] = vec
	}

	return vectors
}

func cosineSparse(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot, normA, normB float64
	for t, va := range a {
		if vb, ok := b[t]; ok {
			dot += va * vb
		}
		normA += va * va
	}
	for _, vb := range b {
		normB += vb * vb
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
