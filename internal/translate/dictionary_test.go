package translate

import (
	"context"
	"strings"
	"testing"
)

func TestDictionaryPhrasesBeforeWords(t *testing.T) {
	d := NewDictionary()

	out, err := d.Translate(context.Background(), "The future of coding assistants")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(out, "مستقبل") {
		t.Errorf("expected phrase translation, got %q", out)
	}
}

func TestDictionaryCaseInsensitiveWholeWord(t *testing.T) {
	d := NewDictionary()

	out, _ := d.Translate(context.Background(), "introducing our newest model")
	if !strings.Contains(out, "نُقدم لكم") {
		t.Errorf("case-insensitive match failed: %q", out)
	}

	// "New" must not fire inside "newest".
	if strings.Contains(out, "جديد") {
		t.Errorf("word boundary violated: %q", out)
	}
}

func TestDictionaryFallbackMarker(t *testing.T) {
	d := NewDictionary()

	out, _ := d.Translate(context.Background(), "Quarterly earnings call transcript")
	if !strings.HasPrefix(out, "الخبر: ") {
		t.Errorf("expected fallback marker, got %q", out)
	}
}

func TestContainsArabic(t *testing.T) {
	if ContainsArabic("plain english") {
		t.Error("false positive")
	}
	if !ContainsArabic("تحديث جديد") {
		t.Error("false negative")
	}
}
