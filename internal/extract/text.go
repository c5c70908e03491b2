package extract

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText returns the concatenated text of node and its descendants, the same
// value a browser reports as textContent.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

// Text returns the trimmed textContent of the first node in sel.
func Text(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return TrimSpace(GetText(sel.Get(0)))
}

// Attr returns the named attribute of node.
func Attr(node *html.Node, key string) (string, bool) {
	if node == nil {
		return "", false
	}
	for _, a := range node.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// IsSpace reports Unicode white space, which covers the no-break spaces
// the site uses as thousands separators.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// TrimSpace trims Unicode whitespace, including no-break spaces.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsSpace)
}

// StripSpace removes every whitespace rune from s.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Truncate cuts s to n runes, appending suffix when anything was removed.
func Truncate(s string, n int, suffix string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + suffix
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}

// Anchor is a link with its visible text.
type Anchor struct {
	Text string
	Href string
	Node *html.Node
}

// Anchors returns every element of sel with its raw textContent and href.
func Anchors(sel *goquery.Selection) []Anchor {
	anchors := make([]Anchor, 0, sel.Length())
	for _, n := range sel.Nodes {
		href, _ := Attr(n, "href")
		anchors = append(anchors, Anchor{
			Text: GetText(n),
			Href: href,
			Node: n,
		})
	}
	return anchors
}
