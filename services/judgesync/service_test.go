package judgesync

import (
	"context"
	"testing"

	"fightsync-backend/lib/testutil"
	"fightsync-backend/services/judgesync/db"

	"github.com/stretchr/testify/require"
)

type fakeGetter map[string]string

func (g fakeGetter) Get(_ context.Context, url string) (string, bool) {
	body, ok := g[url]
	return body, ok
}

const base = "http://mmadecisions.com/"

func yearIndex(years ...string) string {
	page := `<table width="100%"><tr>`
	for _, y := range years {
		page += `<td><a href="decisions-by-event/` + y + `/">` + y + `</a></td>`
	}
	return page + `</tr></table>`
}

func yearPage(events ...[2]string) string {
	page := `<body>`
	for _, e := range events {
		page += `<a href="` + e[1] + `">` + e[0] + `</a>`
	}
	return page + `</body>`
}

func eventPage(bouts ...[2]string) string {
	page := `<body>`
	for _, b := range bouts {
		page += `<a href="` + b[1] + `">` + b[0] + `</a>`
	}
	return page + `</body>`
}

func boutPage(dateText string, rounds int) string {
	page := `<body>
<table>
  <tr><td class="decision-top2">
    <a href="event/1/UFC-300">UFC 300: Pereira vs. Hill</a>
    ` + dateText + `
  </td></tr>
  <tr><td class="decision-bottom2">REFEREE: Marc Goddard</td></tr>
</table>
<table style="border-spacing: 1px; width: 100%">
  <tr><td colspan="3"><a href="judge/1">Sal D'Amato</a></td></tr>`
	scores := [][2]string{{"10", "9"}, {"10", "9"}, {"9", "10"}, {"10", "9"}, {"10", "9"}}
	for r := 1; r <= rounds; r++ {
		s := scores[(r-1)%len(scores)]
		page += `<tr class="decision"><td class="list">` + string(rune('0'+r)) + `</td>` +
			`<td class="list">` + s[0] + `</td><td class="list">` + s[1] + `</td></tr>`
	}
	return page + `</table></body>`
}

func setupService(t *testing.T, getter fakeGetter, opts Options) (Service, *db.Queries) {
	t.Helper()
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "judgesync",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	opts.NewGetter = func() Getter { return getter }
	if opts.Workers == 0 {
		opts.Workers = 2
	}
	return NewService(res.DB, opts), db.New(res.DB)
}

func upstream() fakeGetter {
	return fakeGetter{
		base + "decisions-by-event/":      yearIndex("2024"),
		base + "decisions-by-event/2024/": yearPage([2]string{"UFC 300: Pereira vs. Hill", "event/1/UFC-300"}),
		base + "event/1/UFC-300": eventPage(
			[2]string{"Alex Pereira vs. Jamahal Hill", "decision/1/Alex-Pereira-vs-Jamahal-Hill"},
			[2]string{"Zhang Weili vs. Yan Xiaonan", "decision/2/Zhang-Weili-vs-Yan-Xiaonan"},
		),
		base + "decision/1/Alex-Pereira-vs-Jamahal-Hill": boutPage("April 13, 2024", 3),
		base + "decision/2/Zhang-Weili-vs-Yan-Xiaonan":   boutPage("April 13, 2024", 5),
	}
}

func TestRunIngestsScorecardsAndConverges(t *testing.T) {
	service, qry := setupService(t, upstream(), Options{StartYear: 2024, EndYear: 2024})
	ctx := context.Background()

	report, err := service.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.EventsChecked)
	require.Equal(t, 2, report.BoutsProcessed)
	// one judge scoring both fighters, 3 rounds plus 5 rounds
	require.Equal(t, 16, report.RowsUpserted)
	require.Equal(t, 0, report.Failed)
	require.False(t, report.StoppedEarly)

	scores, err := qry.ListScoresForBout(ctx, "Alex Pereira vs Jamahal Hill")
	require.NoError(t, err)
	require.Len(t, scores, 6)
	require.Equal(t, "2024-04-13", scores[0].Date)
	require.Equal(t, "Marc Goddard", scores[0].Referee)
	require.Equal(t, "Sal D'Amato", scores[0].Judge)
	require.Equal(t, "UFC 300: Pereira vs Hill", scores[0].EventName)

	// everything known now, a second run fetches no bout pages
	report, err = service.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, report.BoutsProcessed)
	require.Equal(t, 0, report.RowsUpserted)
}

func TestDottedAbbreviatedDateParses(t *testing.T) {
	getter := upstream()
	getter[base+"decision/1/Alex-Pereira-vs-Jamahal-Hill"] = boutPage("Apr. 13, 2024", 3)
	service, qry := setupService(t, getter, Options{StartYear: 2024, EndYear: 2024})

	_, err := service.Run(context.Background())
	require.NoError(t, err)

	scores, err := qry.ListScoresForBout(context.Background(), "Alex Pereira vs Jamahal Hill")
	require.NoError(t, err)
	require.NotEmpty(t, scores)
	require.Equal(t, "2024-04-13", scores[0].Date)
}

func TestStopsAfterConsecutiveSyncedEvents(t *testing.T) {
	getter := fakeGetter{
		base + "decisions-by-event/": yearIndex("2024"),
		base + "decisions-by-event/2024/": yearPage(
			[2]string{"UFC 300: Pereira vs. Hill", "event/1/UFC-300"},
			[2]string{"UFC 299: O'Malley vs. Vera", "event/2/UFC-299"},
			[2]string{"UFC 298: Volkanovski vs. Topuria", "event/3/UFC-298"},
		),
	}
	for i, name := range []string{"UFC-300", "UFC-299", "UFC-298"} {
		getter[base+"event/"+string(rune('1'+i))+"/"+name] = eventPage(
			[2]string{"Some Fighter vs. Other Fighter", "decision/9/Some-Fighter-vs-Other-Fighter"},
		)
	}

	service, qry := setupService(t, getter, Options{
		StartYear: 2024, EndYear: 2024, StopThreshold: 2,
	})
	ctx := context.Background()

	// every event's only bout is already stored
	for _, event := range []string{"UFC 300: Pereira vs Hill", "UFC 299: O'Malley vs Vera", "UFC 298: Volkanovski vs Topuria"} {
		require.NoError(t, qry.UpsertJudgeScore(ctx, db.UpsertJudgeScoreParams{
			EventName: event,
			Bout:      "Some Fighter vs Other Fighter",
			Date:      "2024-01-01",
			Judge:     "Sal D'Amato",
			Fighter:   "Some Fighter",
			Round:     1,
			Score:     10,
		}))
	}

	report, err := service.Run(ctx)
	require.NoError(t, err)
	require.True(t, report.StoppedEarly)
	require.Equal(t, 2, report.EventsChecked)
	require.Equal(t, 0, report.BoutsProcessed)
}

func TestFetchFailureSkipsBoutSiblingsComplete(t *testing.T) {
	getter := upstream()
	delete(getter, base+"decision/2/Zhang-Weili-vs-Yan-Xiaonan")
	service, qry := setupService(t, getter, Options{StartYear: 2024, EndYear: 2024})
	ctx := context.Background()

	report, err := service.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.BoutsProcessed)
	require.Equal(t, 6, report.RowsUpserted)

	scores, err := qry.ListScoresForBout(ctx, "Alex Pereira vs Jamahal Hill")
	require.NoError(t, err)
	require.Len(t, scores, 6)

	scores, err = qry.ListScoresForBout(ctx, "Zhang Weili vs Yan Xiaonan")
	require.NoError(t, err)
	require.Empty(t, scores)
}

func TestUpsertKeepsLatestValue(t *testing.T) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "judgesync-upsert",
		DbSchema: db.Schema,
	})
	defer cleanup()
	qry := db.New(res.DB)
	ctx := context.Background()

	row := db.UpsertJudgeScoreParams{
		EventName: "UFC 300: Pereira vs Hill",
		Bout:      "Alex Pereira vs Jamahal Hill",
		Date:      "2024-04-13",
		Judge:     "Sal D'Amato",
		Fighter:   "Alex Pereira",
		Round:     1,
		Score:     10,
		Referee:   "Marc Goddard",
	}
	require.NoError(t, qry.UpsertJudgeScore(ctx, row))
	row.Score = 9
	require.NoError(t, qry.UpsertJudgeScore(ctx, row))

	scores, err := qry.ListScoresForBout(ctx, "Alex Pereira vs Jamahal Hill")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	require.EqualValues(t, 9, scores[0].Score)
}

func TestBoutMatchingToleratesOrderingAndSpelling(t *testing.T) {
	require.True(t, isKnownBout("Alex Pereira vs Jamahal Hill", []string{"Jamahal Hill vs Alex Pereira"}))
	require.True(t, isKnownBout("Jose Aldo vs Mario Bautista", []string{"José Aldo vs Mario Bautista"}))
	require.False(t, isKnownBout("Alex Pereira vs Jamahal Hill", []string{"Zhang Weili vs Yan Xiaonan"}))
}
