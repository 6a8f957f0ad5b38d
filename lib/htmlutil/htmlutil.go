package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

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
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

// NormalizeSpace replaces non-printable runes (non-breaking spaces
// included) with ordinary spaces, collapses runs of whitespace and
// trims the edges.
func NormalizeSpace(s string) string {
	out := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}
	normalized := strings.Trim(out.String(), " \t\n")
	return innerWhitespace.ReplaceAllString(normalized, " ")
}

type Anchor struct {
	Name string
	Href string
}

// Anchors collects every <a> in the selection with its normalized
// display text and raw href.
func Anchors(sel *goquery.Selection) []Anchor {
	anchors := []Anchor{}
	for _, n := range sel.Nodes {
		href := ""
		for _, a := range n.Attr {
			if a.Key == "href" {
				href = a.Val
				break
			}
		}
		anchors = append(anchors, Anchor{
			Name: NormalizeSpace(GetText(n)),
			Href: href,
		})
	}
	return anchors
}

// ParagraphTexts returns the normalized text of each <p> descendant,
// in document order. Fight tables render the two fighters of a row as
// stacked paragraphs inside one cell.
func ParagraphTexts(sel *goquery.Selection) []string {
	var texts []string
	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		texts = append(texts, NormalizeSpace(p.Text()))
	})
	return texts
}
