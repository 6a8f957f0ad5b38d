package mmadecisions

import (
	"strings"
	"testing"

	"fightsync-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestExtractYears(t *testing.T) {
	page := `
<table width="100%">
  <tr>
    <td><a href="decisions-by-event/2024/">2024</a></td>
    <td><a href="decisions-by-event/2023/">2023</a></td>
    <td>jump to</td>
    <td><a href="decisions-by-event/2022/">2022</a></td>
  </tr>
</table>`
	require.Equal(t, []int{2024, 2023, 2022}, ExtractYears(parse(t, page)))
}

func TestExtractEventLinks(t *testing.T) {
	page := `
<body>
  <a href="decisions-by-event/2024/UFC-309">UFC 309: Jones vs. Miocic</a>
  <a href="decisions-by-event/2024/Bellator-300">Bellator 300</a>
  <a href="decisions-by-event/2024/UFC-Fight-Night">UFC Fight Night: Magny vs. Prates</a>
</body>`
	want := []htmlutil.Anchor{
		{Name: "UFC 309: Jones vs Miocic", Href: "decisions-by-event/2024/UFC-309"},
		{Name: "UFC Fight Night: Magny vs Prates", Href: "decisions-by-event/2024/UFC-Fight-Night"},
	}
	require.Empty(t, cmp.Diff(want, ExtractEventLinks(parse(t, page))))
}

func TestExtractBoutLinks(t *testing.T) {
	page := `
<body>
  <a href="decision/12345/Jon-Jones-vs-Stipe-Miocic">Jon Jones vs. Stipe Miocic</a>
  <a href="decision/12346/Neil-Magny-vs-Carlos-Prates"><img src="x.png"></a>
  <a href="event/99/UFC-309">UFC 309</a>
</body>`
	want := []htmlutil.Anchor{
		{Name: "Jon Jones vs Stipe Miocic", Href: "decision/12345/Jon-Jones-vs-Stipe-Miocic"},
	}
	require.Empty(t, cmp.Diff(want, ExtractBoutLinks(parse(t, page))))
}

func judgeTable(judge string, rows ...string) string {
	return `<table style="border-spacing: 1px; width: 100%">` +
		`<tr><td colspan="3"><a href="judge/1">` + judge + `</a></td></tr>` +
		strings.Join(rows, "") +
		`</table>`
}

func scoreRow(round, s1, s2 string) string {
	return `<tr class="decision"><td class="list">` + round + `</td><td class="list">` + s1 +
		`</td><td class="list">` + s2 + `</td></tr>`
}

func boutPage(judges string) string {
	return `
<body>
  <table>
    <tr><td class="decision-top2">
      <a href="event/99/UFC-309">UFC 309: Jones vs. Miocic</a>
      November 16, 2024
    </td></tr>
    <tr><td class="decision-bottom2">REFEREE:&#160;Herb Dean</td></tr>
  </table>
  ` + judges + `
</body>`
}

func TestExtractScorecards(t *testing.T) {
	page := boutPage(
		judgeTable("Sal&#160;D'Amato",
			scoreRow("1", "10", "9"),
			scoreRow("2", "10", "9"),
			scoreRow("3", "-", "-")) +
			judgeTable("Derek Cleary",
				scoreRow("1", "9", "10"),
				scoreRow("2", "10", "9")),
	)

	decision, err := ExtractScorecards(parse(t, page),
		"http://mmadecisions.com/decision/12345/Jon-Jones-vs-Stipe-Miocic",
		"Jon Jones vs. Stipe Miocic")
	require.NoError(t, err)

	require.Equal(t, "UFC 309: Jones vs Miocic", decision.EventName)
	require.Equal(t, "November 16, 2024", decision.DateText)
	require.Equal(t, "Herb Dean", decision.Referee)
	require.Equal(t, "Jon Jones vs Stipe Miocic", decision.Bout)
	require.Equal(t, "Jon Jones", decision.Fighter1)
	require.Equal(t, "Stipe Miocic", decision.Fighter2)

	// two scored rounds from the first judge, two from the second,
	// two fighters each; the dashed third round contributes nothing
	want := []JudgeScore{
		{Judge: "Sal D'Amato", Fighter: "Jon Jones", Round: 1, Score: 10},
		{Judge: "Sal D'Amato", Fighter: "Stipe Miocic", Round: 1, Score: 9},
		{Judge: "Sal D'Amato", Fighter: "Jon Jones", Round: 2, Score: 10},
		{Judge: "Sal D'Amato", Fighter: "Stipe Miocic", Round: 2, Score: 9},
		{Judge: "Derek Cleary", Fighter: "Jon Jones", Round: 1, Score: 9},
		{Judge: "Derek Cleary", Fighter: "Stipe Miocic", Round: 1, Score: 10},
		{Judge: "Derek Cleary", Fighter: "Jon Jones", Round: 2, Score: 10},
		{Judge: "Derek Cleary", Fighter: "Stipe Miocic", Round: 2, Score: 9},
	}
	require.Empty(t, cmp.Diff(want, decision.Scores))
}

func TestExtractScorecardsSlugFallback(t *testing.T) {
	page := boutPage(judgeTable("Sal D'Amato", scoreRow("1", "10", "9")))

	decision, err := ExtractScorecards(parse(t, page),
		"http://mmadecisions.com/decision/12345/Jon-Jones-vs-Stipe-Miocic", "")
	require.NoError(t, err)
	require.Equal(t, "Jon Jones", decision.Fighter1)
	require.Equal(t, "Stipe Miocic", decision.Fighter2)
}

func TestExtractScorecardsEmptyPage(t *testing.T) {
	_, err := ExtractScorecards(parse(t, boutPage("")), "http://mmadecisions.com/decision/1/x", "A vs B")
	require.ErrorIs(t, err, ErrNoScorecards)
}
