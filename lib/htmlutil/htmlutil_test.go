package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, markup string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestAnchors(t *testing.T) {
	doc := mustDoc(t, "<div>"+
		"<a href=\"/decision/9000/Jon-Jones-vs-Stipe-Miocic\">Jon Jones  vs  Stipe Miocic</a>"+
		"<a href=\"/other\">  Something\nelse </a>"+
		"</div>")

	anchors := Anchors(doc.Find("a"))
	require.Len(t, anchors, 2)
	require.Equal(t, "/decision/9000/Jon-Jones-vs-Stipe-Miocic", anchors[0].Href)
	require.Equal(t, "Jon Jones vs Stipe Miocic", anchors[0].Name)
	require.Equal(t, "Something else", anchors[1].Name)
}

func TestNormalizeSpace(t *testing.T) {
	require.Equal(t, "Jon Jones", NormalizeSpace("Jon Jones"))
	require.Equal(t, "a b", NormalizeSpace("  a \n\t b "))
}

func TestParagraphTexts(t *testing.T) {
	doc := mustDoc(t, "<td><p> Max Holloway </p><p>Justin Gaethje</p></td>")
	texts := ParagraphTexts(doc.Find("td"))
	require.Equal(t, []string{"Max Holloway", "Justin Gaethje"}, texts)
}
