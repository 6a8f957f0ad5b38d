package mmadecisions

import (
	"strconv"
	"strings"

	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// JudgeScore is one judge's score for one fighter in one round.
type JudgeScore struct {
	Judge   string
	Fighter string
	Round   int
	Score   int
}

// Decision is everything a single bout page yields.
type Decision struct {
	EventName string
	// "Month Day, Year", sometimes with abbreviated month
	DateText string
	Referee  string
	Bout     string
	Fighter1 string
	Fighter2 string
	Scores   []JudgeScore
}

// ExtractYears returns the year numbers offered by the
// decisions-by-event index, in page order.
func ExtractYears(doc *goquery.Document) []int {
	var years []int
	doc.Find(`table[width="100%"]`).First().Find("td").Each(func(_ int, td *goquery.Selection) {
		year, err := strconv.Atoi(strings.TrimSpace(td.Text()))
		if err != nil {
			return
		}
		years = append(years, year)
	})
	return years
}

// ExtractEventLinks returns every link on a year page whose display
// text names a UFC event. The site lists all promotions together.
func ExtractEventLinks(doc *goquery.Document) []htmlutil.Anchor {
	var events []htmlutil.Anchor
	for _, a := range htmlutil.Anchors(doc.Find("a")) {
		if !strings.Contains(a.Name, "UFC") {
			continue
		}
		a.Name = textutil.Clean(a.Name)
		events = append(events, a)
	}
	return events
}

// ExtractBoutLinks returns the bout links of an event page. The
// display text carries properly cased fighter names, which the URL
// slug does not.
func ExtractBoutLinks(doc *goquery.Document) []htmlutil.Anchor {
	var bouts []htmlutil.Anchor
	for _, a := range htmlutil.Anchors(doc.Find("a")) {
		if !strings.Contains(a.Href, "decision/") || a.Name == "" {
			continue
		}
		a.Name = textutil.Clean(a.Name)
		bouts = append(bouts, a)
	}
	return bouts
}

// ExtractScorecards parses a bout page into its decision record.
// boutDisplay is the link text from the event page; when it carries a
// usable "A vs B" the fighter names come from it, otherwise they fall
// back to the URL slug. Rounds a judge left blank or dashed are
// scores that were never handed in and get skipped.
func ExtractScorecards(doc *goquery.Document, fightURL, boutDisplay string) (*Decision, error) {
	eventName, dateText := eventHeader(doc)
	f1, f2 := fighterNames(fightURL, boutDisplay)

	referee := doc.Find("td.decision-bottom2").First().Text()
	referee = htmlutil.NormalizeSpace(strings.Replace(referee, "REFEREE:", "", 1))

	decision := &Decision{
		EventName: textutil.Clean(eventName),
		DateText:  dateText,
		Referee:   referee,
		Bout:      textutil.BoutName(f1, f2),
		Fighter1:  f1,
		Fighter2:  f2,
	}

	doc.Find(`table[style="border-spacing: 1px; width: 100%"]`).Each(func(_ int, table *goquery.Selection) {
		judge := htmlutil.NormalizeSpace(table.Find("a").First().Text())
		if judge == "" {
			return
		}
		table.Find("tr.decision").Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("td.list")
			if cols.Length() < 3 {
				return
			}
			s1 := strings.TrimSpace(cols.Eq(1).Text())
			if s1 == "" || s1 == "-" {
				return
			}
			round, err := strconv.Atoi(strings.TrimSpace(cols.Eq(0).Text()))
			if err != nil {
				return
			}
			score1, err1 := strconv.Atoi(s1)
			score2, err2 := strconv.Atoi(strings.TrimSpace(cols.Eq(2).Text()))
			if err1 != nil || err2 != nil {
				return
			}
			decision.Scores = append(decision.Scores,
				JudgeScore{Judge: judge, Fighter: f1, Round: round, Score: score1},
				JudgeScore{Judge: judge, Fighter: f2, Round: round, Score: score2})
		})
	})

	if len(decision.Scores) == 0 {
		return nil, ErrNoScorecards
	}
	return decision, nil
}

// the header cell stacks the event name and date as separate text
// lines
func eventHeader(doc *goquery.Document) (eventName, dateText string) {
	var lines []string
	for _, line := range strings.Split(doc.Find("td.decision-top2").First().Text(), "\n") {
		if line = htmlutil.NormalizeSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) > 0 {
		eventName = lines[0]
	}
	if len(lines) > 1 {
		dateText = lines[1]
	}
	return eventName, dateText
}

func fighterNames(fightURL, boutDisplay string) (string, string) {
	if f1, f2, ok := strings.Cut(textutil.Clean(boutDisplay), " vs "); ok {
		return strings.TrimSpace(f1), strings.TrimSpace(f2)
	}
	slug := fightURL[strings.LastIndex(fightURL, "/")+1:]
	slug = strings.ReplaceAll(slug, "-", " ")
	if f1, f2, ok := strings.Cut(slug, " vs "); ok {
		return textutil.Clean(f1), textutil.Clean(f2)
	}
	return "Unknown", "Unknown"
}
