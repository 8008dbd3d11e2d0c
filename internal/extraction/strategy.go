package extraction

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// strategy tries to recover one value from a document.
// The bool is false when the strategy found nothing usable.
type strategy[T any] func(doc *goquery.Document) (T, bool)

// firstOf runs strategies in order and returns the first hit.
func firstOf[T any](doc *goquery.Document, strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(doc); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// firstText returns the first selector whose first match has trimmed text accepted by keep.
func firstText(doc *goquery.Document, selectors []string, keep func(string) bool) (string, bool) {
	for _, selector := range selectors {
		t := text(doc.Find(selector).First())
		if t != "" && keep(t) {
			return t, true
		}
	}
	return "", false
}

const headingSelector = "h1, h2, h3, h4, h5, h6"

func text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
