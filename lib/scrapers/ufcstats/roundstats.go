package ufcstats

import (
	"strconv"
	"strings"

	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// RoundStat is one fighter's line for one round, merged out of the
// page's base table and positional/zone table.
type RoundStat struct {
	EventName   string
	Bout        string
	FighterName string
	Round       int

	Knockdowns            int
	SigStrikesLanded      int
	SigStrikesAttempted   int
	TotalStrikesLanded    int
	TotalStrikesAttempted int
	TakedownsLanded       int
	TakedownsAttempted    int
	SubAttempts           int
	Reversals             int
	ControlTime           string
	ControlTimeSec        int

	HeadLanded        int
	HeadAttempted     int
	BodyLanded        int
	BodyAttempted     int
	LegLanded         int
	LegAttempted      int
	DistanceLanded    int
	DistanceAttempted int
	ClinchLanded      int
	ClinchAttempted   int
	GroundLanded      int
	GroundAttempted   int
}

type zoneStat struct {
	fighterName string
	round       int

	headLanded, headAttempted         int
	bodyLanded, bodyAttempted         int
	legLanded, legAttempted           int
	distanceLanded, distanceAttempted int
	clinchLanded, clinchAttempted     int
	groundLanded, groundAttempted     int
}

// ExtractRoundStats parses both per-round tables of a fight page and
// merges them by (fighter, round). The two tables are physically
// separate markup blocks with no guaranteed matching row order, so
// the merge goes through a key lookup. Base rows are authoritative
// for existence: a zone row without a base row contributes nothing,
// and a fight missing either table yields ErrNoStatTables rather
// than a partial result.
func ExtractRoundStats(doc *goquery.Document, eventName, bout string) ([]RoundStat, error) {
	tables := doc.Find("table.b-fight-details__table.js-fight-table")
	if tables.Length() < 2 {
		return nil, ErrNoStatTables
	}

	base := parseBaseTable(tables.Eq(0), eventName, bout)
	zones := parseZoneTable(tables.Eq(1))

	zoneByKey := make(map[[2]string]zoneStat, len(zones))
	for _, z := range zones {
		zoneByKey[[2]string{z.fighterName, strconv.Itoa(z.round)}] = z
	}

	for i := range base {
		z, ok := zoneByKey[[2]string{base[i].FighterName, strconv.Itoa(base[i].Round)}]
		if !ok {
			continue
		}
		base[i].HeadLanded, base[i].HeadAttempted = z.headLanded, z.headAttempted
		base[i].BodyLanded, base[i].BodyAttempted = z.bodyLanded, z.bodyAttempted
		base[i].LegLanded, base[i].LegAttempted = z.legLanded, z.legAttempted
		base[i].DistanceLanded, base[i].DistanceAttempted = z.distanceLanded, z.distanceAttempted
		base[i].ClinchLanded, base[i].ClinchAttempted = z.clinchLanded, z.clinchAttempted
		base[i].GroundLanded, base[i].GroundAttempted = z.groundLanded, z.groundAttempted
	}
	return base, nil
}

// both tables interleave a <thead> announcing "Round N" with the data
// rows of that round. The HTML5 parser hoists such theads up to table
// level, so walk the table's direct children and carry the round
// count across the sections between them. Rows before the first round
// marker are column headers.
func forEachRoundRow(table *goquery.Selection, fn func(round int, tds *goquery.Selection)) {
	round := 0
	table.Children().Each(func(_ int, child *goquery.Selection) {
		if child.Is("thead") {
			if n := roundNumber(child.Text()); n > 0 {
				round = n
			}
			return
		}
		if round == 0 {
			return
		}
		child.Find("tr").Each(func(_ int, row *goquery.Selection) {
			fn(round, row.Find("td"))
		})
	})
}

func parseBaseTable(table *goquery.Selection, eventName, bout string) []RoundStat {
	var stats []RoundStat
	forEachRoundRow(table, func(round int, tds *goquery.Selection) {
		if tds.Length() != 10 {
			return
		}
		for fighter := 0; fighter < 2; fighter++ {
			cells, ok := fighterCells(tds, fighter, 10)
			if !ok {
				continue
			}

			sigL, sigA := textutil.SplitOf(cells[2])
			totL, totA := textutil.SplitOf(cells[4])
			tdL, tdA := textutil.SplitOf(cells[5])

			stats = append(stats, RoundStat{
				EventName:             textutil.Clean(eventName),
				Bout:                  textutil.Clean(bout),
				FighterName:           textutil.Clean(cells[0]),
				Round:                 round,
				Knockdowns:            atoiOrZero(cells[1]),
				SigStrikesLanded:      sigL,
				SigStrikesAttempted:   sigA,
				TotalStrikesLanded:    totL,
				TotalStrikesAttempted: totA,
				TakedownsLanded:       tdL,
				TakedownsAttempted:    tdA,
				SubAttempts:           atoiOrZero(cells[7]),
				Reversals:             atoiOrZero(cells[8]),
				ControlTime:           cells[9],
				ControlTimeSec:        textutil.DurationSeconds(cells[9]),
			})
		}
	})
	return stats
}

func parseZoneTable(table *goquery.Selection) []zoneStat {
	var stats []zoneStat
	forEachRoundRow(table, func(round int, tds *goquery.Selection) {
		if tds.Length() < 9 {
			return
		}
		names := htmlutil.ParagraphTexts(tds.Eq(0))
		if len(names) < 2 {
			return
		}

		for fighter := 0; fighter < 2; fighter++ {
			z := zoneStat{
				fighterName: textutil.Clean(names[fighter]),
				round:       round,
			}
			// head, body, leg, distance, clinch, ground at offsets 3..8
			pairs := []struct{ landed, attempted *int }{
				{&z.headLanded, &z.headAttempted},
				{&z.bodyLanded, &z.bodyAttempted},
				{&z.legLanded, &z.legAttempted},
				{&z.distanceLanded, &z.distanceAttempted},
				{&z.clinchLanded, &z.clinchAttempted},
				{&z.groundLanded, &z.groundAttempted},
			}
			for offset, pair := range pairs {
				texts := htmlutil.ParagraphTexts(tds.Eq(offset + 3))
				if len(texts) <= fighter {
					continue
				}
				*pair.landed, *pair.attempted = textutil.SplitOf(texts[fighter])
			}
			stats = append(stats, z)
		}
	})
	return stats
}

func fighterCells(tds *goquery.Selection, fighter, n int) ([]string, bool) {
	cells := make([]string, n)
	for c := 0; c < n; c++ {
		texts := htmlutil.ParagraphTexts(tds.Eq(c))
		if len(texts) <= fighter {
			return nil, false
		}
		cells[c] = texts[fighter]
	}
	return cells, true
}

func roundNumber(s string) int {
	fields := strings.Fields(s)
	for i, f := range fields {
		if f != "Round" || i+1 >= len(fields) {
			continue
		}
		if n, err := strconv.Atoi(fields[i+1]); err == nil {
			return n
		}
	}
	return 0
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
