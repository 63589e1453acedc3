// internal/annotation/annotation.go
// Package annotation defines spans, documents and the span storage used by
// the trainer, predictor and evaluator.
package annotation

import (
	"sort"
)

// Span is a labeled or unlabeled interval over a document's text.
// An empty Label means the span carries no label. Score is zero for gold
// spans and in (0,1] for predictions.
type Span struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Valid reports whether the span offsets describe a non-empty interval.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.Start < s.End
}

// Labeled reports whether the span carries a label.
func (s Span) Labeled() bool {
	return s.Label != ""
}

// IsPrediction reports whether the span was written by a predictor.
func (s Span) IsPrediction() bool {
	return s.Score > 0
}

// Offsets identifies the interval a span covers. Spans match only when their
// Offsets are equal.
type Offsets struct {
	Start, End int
}

// Offsets returns the span's interval, usable as a map key.
func (s Span) Offsets() Offsets {
	return Offsets{Start: s.Start, End: s.End}
}

// Document is an ordered bag of spans sharing one text buffer.
type Document struct {
	Name  string `json:"name,omitempty"`
	Text  string `json:"text"`
	Spans []Span `json:"spans"`
}

// WithoutLabels returns a working copy holding only the gold span offsets,
// with labels and scores removed.
func (d *Document) WithoutLabels() *Document {
	spans := make([]Span, 0, len(d.Spans))
	for _, s := range d.Spans {
		if s.IsPrediction() {
			continue
		}
		spans = append(spans, Span{Start: s.Start, End: s.End})
	}
	return &Document{Name: d.Name, Text: d.Text, Spans: spans}
}

// GoldSpans returns the spans that were not written by a predictor, in document order.
func (d *Document) GoldSpans() []Span {
	var out []Span
	for _, s := range d.Sorted() {
		if !s.IsPrediction() {
			out = append(out, s)
		}
	}
	return out
}

// Predictions returns the predicted spans, in document order.
func (d *Document) Predictions() []Span {
	var out []Span
	for _, s := range d.Sorted() {
		if s.IsPrediction() {
			out = append(out, s)
		}
	}
	return out
}

// Sorted returns a copy of the spans ordered by start, end, descending score, then label.
func (d *Document) Sorted() []Span {
	spans := make([]Span, len(d.Spans))
	copy(spans, d.Spans)
	SortSpans(spans)
	return spans
}

// SortSpans orders spans in place by document position.
func SortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End < b.End
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Label < b.Label
	})
}

// Instance is a span together with the index of the document it belongs to.
type Instance struct {
	Doc  int
	Span Span
}

// Corpus is an ordered sequence of documents.
type Corpus []*Document

// Instances flattens the gold spans of every document in document order.
func (c Corpus) Instances() []Instance {
	var out []Instance
	for i, doc := range c {
		for _, s := range doc.GoldSpans() {
			out = append(out, Instance{Doc: i, Span: s})
		}
	}
	return out
}

// SpanCount returns the number of gold spans across the corpus.
func (c Corpus) SpanCount() int {
	n := 0
	for _, doc := range c {
		n += len(doc.GoldSpans())
	}
	return n
}

// LabelCounts tallies gold labels across the corpus. Unlabeled spans are
// counted under the empty key.
func (c Corpus) LabelCounts() map[string]int {
	counts := make(map[string]int)
	for _, doc := range c {
		for _, s := range doc.GoldSpans() {
			counts[s.Label]++
		}
	}
	return counts
}
