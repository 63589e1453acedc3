package annotation

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpan is returned when span offsets are out of order or outside the text.
	ErrInvalidSpan = errors.New("invalid span")
	// ErrInvalidScore is returned when a prediction score is outside (0,1].
	ErrInvalidScore = errors.New("invalid score")
)

// SpanStore writes predictions into documents and reads spans back.
type SpanStore interface {
	AddSpan(doc *Document, start, end int, label string, score float64) error
	ReadSpans(doc *Document) []Span
}

// DocumentStore keeps spans directly on the Document.
type DocumentStore struct{}

// NewDocumentStore returns a SpanStore backed by the documents themselves.
func NewDocumentStore() DocumentStore {
	return DocumentStore{}
}

// AddSpan appends a span to the document after validating offsets and score.
func (DocumentStore) AddSpan(doc *Document, start, end int, label string, score float64) error {
	if doc == nil {
		return fmt.Errorf("add span: %w: nil document", ErrInvalidSpan)
	}
	span := Span{Start: start, End: end, Label: label, Score: score}
	if !span.Valid() {
		return fmt.Errorf("add span [%d,%d): %w", start, end, ErrInvalidSpan)
	}
	if doc.Text != "" && end > len(doc.Text) {
		return fmt.Errorf("add span [%d,%d) past text length %d: %w", start, end, len(doc.Text), ErrInvalidSpan)
	}
	if !(score > 0 && score <= 1) {
		return fmt.Errorf("add span [%d,%d) score %v: %w", start, end, score, ErrInvalidScore)
	}
	doc.Spans = append(doc.Spans, span)
	return nil
}

// ReadSpans returns the document's spans in document order.
func (DocumentStore) ReadSpans(doc *Document) []Span {
	if doc == nil {
		return nil
	}
	return doc.Sorted()
}
