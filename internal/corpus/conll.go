package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mwiater/spaneval/internal/annotation"
)

// CoNLLOptions describes the column layout of a CoNLL-2002 style file.
type CoNLLOptions struct {
	// HasTokenNumber marks a leading token index column.
	HasTokenNumber bool
	// HasHeader skips comment lines starting with '#'.
	HasHeader bool
	// HasEmbeddedNamedEntity reads a second IOB column of nested entities.
	HasEmbeddedNamedEntity bool
}

// CoNLLReader turns tab-separated token/IOB files into one document per sentence.
type CoNLLReader struct {
	opts CoNLLOptions
}

// NewCoNLLReader returns a reader for the given column layout.
func NewCoNLLReader(opts CoNLLOptions) *CoNLLReader {
	return &CoNLLReader{opts: opts}
}

type sentence struct {
	tokens   []string
	outer    []string
	embedded []string
}

// Read splits the input on blank lines and decodes each sentence.
func (r *CoNLLReader) Read(in io.Reader) (annotation.Corpus, error) {
	var docs annotation.Corpus
	var cur sentence
	flush := func() {
		if len(cur.tokens) > 0 {
			docs = append(docs, cur.document())
		}
		cur = sentence{}
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if r.opts.HasHeader && strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-DOCSTART-") {
			flush()
			continue
		}

		cols := strings.Split(line, "\t")
		if r.opts.HasTokenNumber {
			cols = cols[1:]
		}
		need := 2
		if r.opts.HasEmbeddedNamedEntity {
			need = 3
		}
		if len(cols) < need {
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", lineNo, need, len(cols))
		}
		cur.tokens = append(cur.tokens, cols[0])
		cur.outer = append(cur.outer, strings.TrimSpace(cols[1]))
		if r.opts.HasEmbeddedNamedEntity {
			cur.embedded = append(cur.embedded, strings.TrimSpace(cols[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning conll input: %w", err)
	}
	flush()
	return docs, nil
}

// document joins the tokens with single spaces and decodes the IOB columns
// into spans over that text.
func (s sentence) document() *annotation.Document {
	offsets := make([][2]int, len(s.tokens))
	var text strings.Builder
	for i, tok := range s.tokens {
		if i > 0 {
			text.WriteByte(' ')
		}
		start := text.Len()
		text.WriteString(tok)
		offsets[i] = [2]int{start, text.Len()}
	}

	spans := DecodeIOB(s.outer, offsets)
	if len(s.embedded) > 0 {
		spans = append(spans, DecodeIOB(s.embedded, offsets)...)
	}
	annotation.SortSpans(spans)
	return &annotation.Document{Text: text.String(), Spans: spans}
}

// DecodeIOB converts per-token B-X/I-X/O tags into spans. An I-X that does not
// continue an open X entity starts a new one; bare tags without a prefix are
// read as I- tags.
func DecodeIOB(tags []string, offsets [][2]int) []annotation.Span {
	var spans []annotation.Span
	open := false
	var cur annotation.Span
	closeSpan := func() {
		if open {
			spans = append(spans, cur)
		}
		open = false
	}

	for i, tag := range tags {
		if i >= len(offsets) {
			break
		}
		if tag == "" || tag == "O" || tag == "_" {
			closeSpan()
			continue
		}
		prefix, label := "I", tag
		if len(tag) > 2 && tag[1] == '-' {
			prefix, label = tag[:1], tag[2:]
		}
		switch prefix {
		case "B":
			closeSpan()
		default:
			if open && cur.Label == label {
				cur.End = offsets[i][1]
				continue
			}
			closeSpan()
		}
		cur = annotation.Span{Start: offsets[i][0], End: offsets[i][1], Label: label}
		open = true
	}
	closeSpan()
	return spans
}
