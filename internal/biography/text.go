package biography

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/atom"
)

// PlainText strips any markup the model emitted and normalizes whitespace,
// keeping blank-line separated paragraphs. Angle brackets that do not open a
// known HTML element, as in "<Go>" or "<5>", are kept as text.
func PlainText(raw string) string {
	paragraphs := make([]string, 0, 1)

	for _, block := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n") {
		text := block
		if escaped, hasMarkup := escapeStrayBrackets(block); hasMarkup {
			if doc, err := goquery.NewDocumentFromReader(strings.NewReader(escaped)); err == nil {
				text = doc.Text()
			}
		}

		if words := strings.Fields(text); len(words) > 0 {
			paragraphs = append(paragraphs, strings.Join(words, " "))
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

// escapeStrayBrackets replaces every '<' that does not start a known HTML tag with
// "&lt;" and reports whether any known tag remains.
func escapeStrayBrackets(s string) (string, bool) {
	var (
		b         strings.Builder
		hasMarkup bool
	)

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '<' {
			b.WriteByte(s[i])
			continue
		}

		if opensKnownTag(s[i+1:]) {
			hasMarkup = true
			b.WriteByte('<')
			continue
		}

		b.WriteString("&lt;")
	}

	return b.String(), hasMarkup
}

// opensKnownTag reports whether rest, the text after a '<', begins with an HTML
// element name followed by whitespace, '/' or '>'.
func opensKnownTag(rest string) bool {
	rest = strings.TrimPrefix(rest, "/")

	end := 0
	for end < len(rest) && isTagNameByte(rest[end], end == 0) {
		end++
	}

	if end == 0 || end == len(rest) {
		return false
	}

	switch rest[end] {
	case ' ', '\t', '\n', '/', '>':
	default:
		return false
	}

	return atom.Lookup([]byte(strings.ToLower(rest[:end]))) != 0
}

func isTagNameByte(c byte, first bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	default:
		return false
	}
}
