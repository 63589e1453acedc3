package majority

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/spaneval/internal/annotation"
)

func labeled(labels ...string) *annotation.Document {
	doc := &annotation.Document{}
	for i, l := range labels {
		doc.Spans = append(doc.Spans, annotation.Span{Start: i * 10, End: i*10 + 5, Label: l})
	}
	return doc
}

func TestTrainRanking(t *testing.T) {
	docs := []*annotation.Document{
		labeled("PER", "LOC", "ORG"),
		labeled("PER", "LOC", ""),
		labeled("PER"),
		nil,
	}
	docs[2].Spans = append(docs[2].Spans, annotation.Span{Start: 50, End: 55, Label: "ORG", Score: 0.9})

	m := Train(docs)
	if m.Total != 6 {
		t.Fatalf("expected total 6, got %d", m.Total)
	}
	want := []LabelCount{{"PER", 3}, {"LOC", 2}, {"ORG", 1}}
	for i, lc := range want {
		if m.Ranking[i] != lc {
			t.Fatalf("rank %d: expected %+v, got %+v", i, lc, m.Ranking[i])
		}
	}
	if m.Majority() != "PER" {
		t.Fatalf("expected majority PER, got %q", m.Majority())
	}
	if got := m.Score("LOC"); got != 2.0/6.0 {
		t.Fatalf("expected LOC score 2/6, got %v", got)
	}
	if m.Score("MISC") != 0 {
		t.Fatal("unseen label must score 0")
	}
	if top := m.Top(2); len(top) != 2 || top[1].Label != "LOC" {
		t.Fatalf("unexpected Top(2) %+v", top)
	}
	if top := m.Top(10); len(top) != 3 {
		t.Fatalf("Top must clamp to ranking length, got %+v", top)
	}
}

func TestTrainTiesAndEmpty(t *testing.T) {
	m := Train([]*annotation.Document{labeled("ORG", "LOC", "PER", "LOC", "ORG")})
	if labels := m.Labels(); labels[0] != "LOC" || labels[1] != "ORG" || labels[2] != "PER" {
		t.Fatalf("ties must break by label, got %v", labels)
	}

	empty := Train([]*annotation.Document{labeled("", "")})
	if !empty.Empty() || empty.Majority() != "" || empty.Top(3) != nil {
		t.Fatalf("expected empty model, got %+v", empty)
	}
	if Train(nil).Total != 0 {
		t.Fatal("training on nothing must give an empty model")
	}
}

func TestPredict(t *testing.T) {
	m := Train([]*annotation.Document{labeled("PER", "PER", "PER", "LOC", "LOC", "ORG")})
	doc := &annotation.Document{
		Text: "Angela Merkel lives in Berlin",
		Spans: []annotation.Span{
			{Start: 0, End: 13},
			{Start: 0, End: 13},
			{Start: 23, End: 29},
			{Start: 14, End: 19, Label: "O"},
		},
	}

	n, err := Predictor{MaxRecommendations: 3}.Predict(m, doc, annotation.NewDocumentStore())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if n != 6 {
		t.Fatalf("expected 6 predictions for two distinct offsets, got %d", n)
	}

	preds := doc.Predictions()
	if len(preds) != 6 {
		t.Fatalf("expected 6 stored predictions, got %d", len(preds))
	}
	sum := 0.0
	for i, p := range preds[:3] {
		if p.Start != 0 || p.End != 13 {
			t.Fatalf("prediction %d at wrong offsets %+v", i, p)
		}
		if p.Score <= 0 || p.Score > 1 {
			t.Fatalf("score out of range %+v", p)
		}
		if i > 0 && p.Score >= preds[i-1].Score {
			t.Fatalf("scores must strictly decrease for distinct counts: %+v", preds[:3])
		}
		sum += p.Score
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Fatalf("scores of the full ranking should sum to 1, got %v", sum)
	}
	if preds[0].Label != "PER" || preds[0].Score != 0.5 {
		t.Fatalf("unexpected top prediction %+v", preds[0])
	}
}

func TestPredictLimitAndEmptyModel(t *testing.T) {
	m := Train([]*annotation.Document{labeled("PER", "LOC", "LOC")})
	doc := &annotation.Document{Spans: []annotation.Span{{Start: 0, End: 4}}}
	n, err := Predictor{MaxRecommendations: 1}.Predict(m, doc, annotation.NewDocumentStore())
	if err != nil || n != 1 {
		t.Fatalf("expected one prediction, got %d, %v", n, err)
	}
	if p := doc.Predictions()[0]; p.Label != "LOC" {
		t.Fatalf("expected LOC, got %+v", p)
	}

	doc = &annotation.Document{Spans: []annotation.Span{{Start: 0, End: 4}}}
	n, err = Predictor{}.Predict(&Model{}, doc, annotation.NewDocumentStore())
	if err != nil || n != 0 || len(doc.Spans) != 1 {
		t.Fatalf("empty model must write nothing, got %d, %v, %+v", n, err, doc.Spans)
	}
}

func TestPredictStoreError(t *testing.T) {
	m := Train([]*annotation.Document{labeled("PER")})
	doc := &annotation.Document{Text: "abc", Spans: []annotation.Span{{Start: 1, End: 8}}}
	if _, err := (Predictor{}).Predict(m, doc, annotation.NewDocumentStore()); !errors.Is(err, annotation.ErrInvalidSpan) {
		t.Fatalf("expected ErrInvalidSpan from store, got %v", err)
	}
}

func TestPredictDocument(t *testing.T) {
	m := Train([]*annotation.Document{labeled("PER", "LOC", "LOC")})
	gold := labeled("PER", "ORG")
	out, err := Predictor{MaxRecommendations: 2}.PredictDocument(m, gold)
	if err != nil {
		t.Fatalf("PredictDocument: %v", err)
	}
	if len(out.Predictions()) != 4 {
		t.Fatalf("expected 4 predictions, got %+v", out.Spans)
	}
	if gold.Spans[0].Label != "PER" || len(gold.Spans) != 2 {
		t.Fatalf("source document was modified: %+v", gold.Spans)
	}
}

func TestSaveLoadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	m := Train([]*annotation.Document{labeled("PER", "PER", "PER", "LOC", "LOC", "ORG")})
	if err := SaveModel(path, m); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}
	loaded, err := LoadModel(path)
	if err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	if loaded.Total != 6 || loaded.Majority() != "PER" || loaded.Score("ORG") != 1.0/6.0 {
		t.Fatalf("unexpected loaded model %+v", loaded)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"ranking":[{"label":"PER","count":2}],"total":5}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadModel(bad); !errors.Is(err, ErrInvalidModel) {
		t.Fatalf("expected ErrInvalidModel, got %v", err)
	}

	emptyPath := filepath.Join(t.TempDir(), "empty.json")
	if err := SaveModel(emptyPath, nil); err != nil {
		t.Fatalf("SaveModel(nil): %v", err)
	}
	empty, err := LoadModel(emptyPath)
	if err != nil || !empty.Empty() {
		t.Fatalf("expected empty model round trip, got %+v, %v", empty, err)
	}
}
