package ufcstats

import (
	"strings"

	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type FightRow struct {
	Fighter1  string
	Fighter2  string
	// canonical "A vs B"
	Bout      string
	DetailURL string
}

// ExtractFixtureRows parses the fight card of an event that has not
// happened yet. The detail link sits in the fighter cell on fixture
// pages, with the first cell as a fallback.
func ExtractFixtureRows(doc *goquery.Document) ([]FightRow, error) {
	return extractFightRows(doc, 2, func(tds *goquery.Selection) string {
		if href, ok := tds.Eq(1).Find("a").First().Attr("href"); ok {
			return strings.TrimSpace(href)
		}
		if href, ok := tds.Eq(0).Find("a").First().Attr("href"); ok {
			return strings.TrimSpace(href)
		}
		return ""
	})
}

// ExtractResultRows parses the results table of a completed event.
// Only full-width rows count; a completed row without a detail link
// in its first cell was cancelled or invalid upstream and is skipped.
func ExtractResultRows(doc *goquery.Document) ([]FightRow, error) {
	rows, err := extractFightRows(doc, 10, func(tds *goquery.Selection) string {
		if href, ok := tds.Eq(0).Find("a").First().Attr("href"); ok {
			return strings.TrimSpace(href)
		}
		return ""
	})
	if err != nil {
		return nil, err
	}
	kept := rows[:0]
	for _, row := range rows {
		if row.DetailURL == "" {
			continue
		}
		kept = append(kept, row)
	}
	return kept, nil
}

func extractFightRows(doc *goquery.Document, minCells int, link func(*goquery.Selection) string) ([]FightRow, error) {
	tbody := doc.Find("tbody")
	if tbody.Length() == 0 {
		return nil, ErrNoFightTable
	}

	var rows []FightRow
	tbody.Find("tr.b-fight-details__table-row").Each(func(_ int, row *goquery.Selection) {
		tds := row.Find("td")
		if tds.Length() < minCells {
			return
		}
		fighters := htmlutil.ParagraphTexts(tds.Eq(1))
		if len(fighters) < 2 {
			return
		}

		f1 := textutil.Clean(fighters[0])
		f2 := textutil.Clean(fighters[1])
		rows = append(rows, FightRow{
			Fighter1:  f1,
			Fighter2:  f2,
			Bout:      textutil.BoutName(f1, f2),
			DetailURL: link(tds),
		})
	})
	return rows, nil
}
