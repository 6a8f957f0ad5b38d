package ufcstats

import (
	"strings"

	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type Event struct {
	Name     string
	URL      string
	// "Month Day, Year" as printed by the site
	DateText string
	Location string
}

// ExtractEvents parses the completed event listing table. Rows
// without a link are spacers; rows carrying an icon are the
// upcoming-event teaser the completed listing leads with. Both are
// skipped.
func ExtractEvents(doc *goquery.Document) ([]Event, error) {
	return extractEvents(doc, true)
}

// ExtractUpcomingEvents parses the upcoming event listing, which has
// no teaser rows to filter.
func ExtractUpcomingEvents(doc *goquery.Document) ([]Event, error) {
	return extractEvents(doc, false)
}

func extractEvents(doc *goquery.Document, skipIconRows bool) ([]Event, error) {
	table := doc.Find("table.b-statistics__table-events")
	if table.Length() == 0 {
		return nil, ErrNoEventsTable
	}

	var events []Event
	table.Find("tr.b-statistics__table-row").Each(func(_ int, row *goquery.Selection) {
		if row.Find("a").Length() == 0 {
			return
		}
		if skipIconRows && row.Find("img").Length() > 0 {
			return
		}
		tds := row.Find("td")
		if tds.Length() < 2 {
			return
		}

		anchor := tds.Eq(0).Find("a").First()
		url, ok := anchor.Attr("href")
		if !ok {
			return
		}
		events = append(events, Event{
			Name:     textutil.Clean(anchor.Text()),
			URL:      strings.TrimSpace(url),
			DateText: htmlutil.NormalizeSpace(tds.Eq(0).Find("span.b-statistics__date").Text()),
			Location: htmlutil.NormalizeSpace(tds.Eq(1).Text()),
		})
	})
	return events, nil
}
