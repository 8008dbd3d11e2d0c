package rendering

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Literal encodes v as a two-space indented JSON value, which is also a valid
// TypeScript expression. HTML characters are left unescaped.
func Literal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// EscapeComment makes text safe inside a single-line // comment.
func EscapeComment(text string) string {
	if text == "" {
		return ""
	}
	r := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", " ", " ", " ", " ")
	return r.Replace(text)
}
