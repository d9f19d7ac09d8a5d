package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/officialai/aggregator/internal/update"
)

type fakeTranslator struct {
	calls int
	fail  bool
}

func (f *fakeTranslator) Translate(_ context.Context, text string) (string, error) {
	f.calls++
	if f.fail {
		return "", errors.New("provider down")
	}
	return "ترجمة " + text, nil
}

func TestTranslateRecordsSkipsTranslated(t *testing.T) {
	records := []update.Record{
		{Title: "First post", Summary: "Body one"},
		{Title: "Second post", TitleAR: "ترجمة Second post", SummaryAR: "ترجمة Body two"},
		{Title: "Third post"},
	}

	fake := &fakeTranslator{}
	svc := NewService(fake, Options{ChunkSize: 3})

	n, err := svc.TranslateRecords(context.Background(), records)
	if err != nil {
		t.Fatalf("TranslateRecords: %v", err)
	}
	if n != 2 {
		t.Errorf("translated = %d, want 2", n)
	}
	if records[0].TitleAR != "ترجمة First post" || records[0].SummaryAR != "ترجمة Body one" {
		t.Errorf("record 0 not translated: %+v", records[0])
	}
	if records[1].TitleAR != "ترجمة Second post" {
		t.Error("already-translated record was touched")
	}
	if records[2].TitleAR == "" {
		t.Error("record without summary should still get a title translation")
	}
	if records[2].SummaryAR != "" {
		t.Error("empty summary must not be translated")
	}
}

func TestTranslateRecordsBudget(t *testing.T) {
	records := []update.Record{
		{Title: "One"}, {Title: "Two"}, {Title: "Three"},
	}

	fake := &fakeTranslator{}
	svc := NewService(fake, Options{ChunkSize: 3, MaxCalls: 2})

	n, err := svc.TranslateRecords(context.Background(), records)
	if !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected ErrBudgetExhausted, got %v", err)
	}
	if n != 2 {
		t.Errorf("translated = %d, want 2", n)
	}
	if records[2].TitleAR != "" {
		t.Error("third record should be left for the next run")
	}
}

func TestTranslateRecordsProviderFailure(t *testing.T) {
	records := []update.Record{{Title: "One"}, {Title: "Two"}}

	svc := NewService(&fakeTranslator{fail: true}, Options{ChunkSize: 3})
	n, err := svc.TranslateRecords(context.Background(), records)
	if err != nil {
		t.Fatalf("individual failures must not abort the batch: %v", err)
	}
	if n != 0 {
		t.Errorf("translated = %d, want 0", n)
	}
}

func TestChainFallsThrough(t *testing.T) {
	broken := &fakeTranslator{fail: true}
	working := &fakeTranslator{}
	chain := Chain{broken, working}

	out, err := chain.Translate(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Chain.Translate: %v", err)
	}
	if out != "ترجمة Hello" {
		t.Errorf("out = %q", out)
	}
	if broken.calls != 1 || working.calls != 1 {
		t.Errorf("calls: broken=%d working=%d", broken.calls, working.calls)
	}
}
