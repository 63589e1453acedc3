package corpus

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/spaneval/internal/annotation"
	"github.com/xeipuuv/gojsonschema"
)

// ErrSchema is returned when a record does not match the document schema.
var ErrSchema = errors.New("document does not match schema")

// documentSchema describes one annotated document record.
const documentSchema = `{
  "type": "object",
  "required": ["text", "spans"],
  "properties": {
    "name": {"type": "string"},
    "text": {"type": "string"},
    "spans": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["start", "end"],
        "properties": {
          "start": {"type": "integer", "minimum": 0},
          "end": {"type": "integer", "minimum": 1},
          "label": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

type spanRecord struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Label *string `json:"label"`
}

type documentRecord struct {
	Name  string       `json:"name"`
	Text  string       `json:"text"`
	Spans []spanRecord `json:"spans"`
}

// JSONReader reads documents either one JSON object per line or as a single
// JSON array. Every record is validated against documentSchema.
type JSONReader struct {
	lines  bool
	schema *gojsonschema.Schema
}

// NewJSONReader compiles the document schema. lines selects JSON Lines input.
func NewJSONReader(lines bool) (*JSONReader, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	return &JSONReader{lines: lines, schema: schema}, nil
}

// Read decodes and validates every record.
func (r *JSONReader) Read(in io.Reader) (annotation.Corpus, error) {
	var raws []json.RawMessage
	if r.lines {
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}
			raws = append(raws, append(json.RawMessage(nil), line...))
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error scanning records: %w", err)
		}
	} else {
		if err := json.NewDecoder(in).Decode(&raws); err != nil {
			return nil, fmt.Errorf("error parsing document array: %w", err)
		}
	}

	docs := make(annotation.Corpus, 0, len(raws))
	for i, raw := range raws {
		doc, err := r.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *JSONReader) decode(raw json.RawMessage) (*annotation.Document, error) {
	result, err := r.schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}
	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrSchema, strings.Join(errs, ", "))
	}

	var rec documentRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}

	doc := &annotation.Document{Name: rec.Name, Text: rec.Text, Spans: make([]annotation.Span, 0, len(rec.Spans))}
	for _, s := range rec.Spans {
		span := annotation.Span{Start: s.Start, End: s.End}
		if s.Label != nil {
			span.Label = *s.Label
		}
		if !span.Valid() || span.End > len(rec.Text) {
			return nil, fmt.Errorf("span [%d,%d) over %d bytes of text: %w", s.Start, s.End, len(rec.Text), annotation.ErrInvalidSpan)
		}
		doc.Spans = append(doc.Spans, span)
	}
	return doc, nil
}
