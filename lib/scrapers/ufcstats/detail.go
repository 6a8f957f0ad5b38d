package ufcstats

import (
	"strings"

	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

type FightDetail struct {
	EventName   string
	Bout        string
	Fighter1    string
	Fighter2    string
	// empty unless exactly one fighter is marked as the winning side
	Winner      string
	// "win" when exactly one side is marked winning, "draw"
	// otherwise. The site has no distinct no-contest marker, so no
	// contests land in "draw" by this rule; that approximation is
	// deliberate.
	Result      string
	WeightClass string
	Method      string
	Round       string
	Time        string
	TimeFormat  string
	Referee     string
	FightURL    string
}

// ExtractFightDetail parses a fight detail page into its adjudication
// record.
func ExtractFightDetail(doc *goquery.Document, fightURL string) (*FightDetail, error) {
	persons := doc.Find("div.b-fight-details__person")
	if persons.Length() < 2 {
		return nil, ErrNoFightDetail
	}

	name := func(i int) string {
		return textutil.Clean(persons.Eq(i).Find("h3.b-fight-details__person-name").Text())
	}
	status := func(i int) string {
		return strings.ToUpper(htmlutil.NormalizeSpace(persons.Eq(i).Find("i.b-fight-details__person-status").Text()))
	}

	f1, f2 := name(0), name(1)
	s1, s2 := status(0), status(1)

	winner := ""
	result := "draw"
	if (s1 == "W") != (s2 == "W") {
		result = "win"
		winner = f1
		if s2 == "W" {
			winner = f2
		}
	}

	detailsDiv := doc.Find("div.b-fight-details__fight")
	details := zipDetailItems(detailsDiv)

	return &FightDetail{
		EventName:   textutil.Clean(doc.Find("section div h2 a").First().Text()),
		Bout:        textutil.BoutName(f1, f2),
		Fighter1:    f1,
		Fighter2:    f2,
		Winner:      winner,
		Result:      result,
		WeightClass: htmlutil.NormalizeSpace(detailsDiv.Find("i.b-fight-details__fight-title").Text()),
		Method:      details["method"],
		Round:       details["round"],
		Time:        details["time"],
		TimeFormat:  details["time_format"],
		Referee:     details["referee"],
		FightURL:    fightURL,
	}, nil
}

// the detail block renders "Label: value" pairs as parallel label and
// text-item elements; zip them up by position
func zipDetailItems(detailsDiv *goquery.Selection) map[string]string {
	labels := detailsDiv.Find("i.b-fight-details__label")
	items := detailsDiv.Find("i.b-fight-details__text-item, i.b-fight-details__text-item_first")

	details := map[string]string{}
	for i := 0; i < labels.Length() && i < items.Length(); i++ {
		labelText := labels.Eq(i).Text()
		key := strings.TrimSuffix(strings.TrimSpace(labelText), ":")
		key = strings.ReplaceAll(strings.ToLower(key), " ", "_")

		value := strings.Replace(items.Eq(i).Text(), labelText, "", 1)
		details[key] = htmlutil.NormalizeSpace(value)
	}
	return details
}
