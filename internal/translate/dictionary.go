package translate

import (
	"context"
	"regexp"
	"sort"
)

// commonTerms maps recurring headline phrases to Arabic. The dictionary is the
// last-resort provider when no AI backend is configured or reachable.
var commonTerms = map[string]string{
	"Introducing":   "نُقدم لكم",
	"Announcing":    "إعلان عن",
	"How to":        "كيفية",
	"Scaling":       "توسيع نطاق",
	"Advancing":     "تعزيز",
	"Building":      "بناء",
	"Accelerating":  "تسريع",
	"The future of": "مستقبل",
	"Inside":        "نظرة داخل",
	"Our approach to": "نهجنا تجاه",
	"Investing in":  "الاستثمار في",
	"Partnership":   "شراكة",
	"Available now": "متاح الآن",
	"New":           "جديد",
	"Update":        "تحديث",
}

// Dictionary does phrase-level substitution. Longer phrases are replaced
// first so "The future of" is not shadowed by "New" style single words.
type Dictionary struct {
	rules []dictRule
}

type dictRule struct {
	re *regexp.Regexp
	ar string
}

func NewDictionary() *Dictionary {
	phrases := make([]string, 0, len(commonTerms))
	for en := range commonTerms {
		phrases = append(phrases, en)
	}
	sort.Slice(phrases, func(i, j int) bool { return len(phrases[i]) > len(phrases[j]) })

	d := &Dictionary{}
	for _, en := range phrases {
		re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(en) + `\b`)
		d.rules = append(d.rules, dictRule{re: re, ar: commonTerms[en]})
	}
	return d
}

func (d *Dictionary) Translate(_ context.Context, text string) (string, error) {
	if text == "" {
		return "", nil
	}
	out := text
	for _, r := range d.rules {
		out = r.re.ReplaceAllString(out, r.ar)
	}
	if !ContainsArabic(out) {
		// Nothing matched; mark the text as untranslated news so a later AI
		// pass can still pick it up.
		return "الخبر: " + out, nil
	}
	return out, nil
}

// ContainsArabic reports whether s carries at least one Arabic-block rune.
func ContainsArabic(s string) bool {
	for _, r := range s {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}
