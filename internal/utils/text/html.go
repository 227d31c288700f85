package text

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AllowedTags are kept, without attributes, by CleanHTML.
var AllowedTags = map[atom.Atom]bool{
	atom.P:      true,
	atom.Br:     true,
	atom.Strong: true,
	atom.Em:     true,
	atom.Ul:     true,
	atom.Ol:     true,
	atom.Li:     true,
}

// block-level elements separate words when tags are stripped
var blockTags = map[atom.Atom]bool{
	atom.P: true, atom.Br: true, atom.Div: true, atom.Li: true, atom.Ul: true, atom.Ol: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Tr: true, atom.Td: true, atom.Th: true, atom.Table: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true, atom.Figure: true,
	atom.Figcaption: true, atom.Pre: true, atom.Hr: true,
}

// content of these elements is never text
var skipContent = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Iframe: true, atom.Template: true,
}

var markup = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

var textEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// HasMarkup reports whether s contains anything that looks like a tag.
func HasMarkup(s string) bool {
	return markup.MatchString(s)
}

// CleanHTML keeps only AllowedTags (attributes dropped), decodes entities in
// text, collapses whitespace and trims. Applying it twice gives the same result.
func CleanHTML(s string) string {
	var b strings.Builder
	walk(s, func(tt html.TokenType, tok html.Token) {
		switch tt {
		case html.TextToken:
			b.WriteString(textEscaper.Replace(tok.Data))
		case html.StartTagToken, html.SelfClosingTagToken:
			if AllowedTags[tok.DataAtom] {
				b.WriteString("<" + tok.DataAtom.String() + ">")
			} else if blockTags[tok.DataAtom] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			if AllowedTags[tok.DataAtom] && tok.DataAtom != atom.Br {
				b.WriteString("</" + tok.DataAtom.String() + ">")
			} else if blockTags[tok.DataAtom] {
				b.WriteByte(' ')
			}
		}
	})
	return CollapseWhitespace(b.String())
}

// StripTags removes every tag, decodes entities and collapses whitespace.
// Angle brackets in text stay escaped, so the result parses back as the same
// text and never contains a tag character.
func StripTags(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return CollapseWhitespace(s)
	}
	var b strings.Builder
	walk(s, func(tt html.TokenType, tok html.Token) {
		switch tt {
		case html.TextToken:
			b.WriteString(textEscaper.Replace(tok.Data))
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			if blockTags[tok.DataAtom] {
				b.WriteByte(' ')
			}
		}
	})
	return CollapseWhitespace(b.String())
}

// walk tokenizes s and calls fn for every token outside skipContent elements.
func walk(s string, fn func(html.TokenType, html.Token)) {
	z := html.NewTokenizer(strings.NewReader(s))
	skipping := atom.Atom(0)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		tok := z.Token()
		if skipping != 0 {
			if tt == html.EndTagToken && tok.DataAtom == skipping {
				skipping = 0
			}
			continue
		}
		if tt == html.StartTagToken && skipContent[tok.DataAtom] {
			skipping = tok.DataAtom
			continue
		}
		fn(tt, tok)
	}
}
