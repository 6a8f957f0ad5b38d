package db

import "database/sql"

type UfcEvent struct {
	ID            int64
	EventName     string
	EventURL      string
	EventDate     sql.NullString
	EventLocation string
	StartTime     sql.NullString
}

type Fight struct {
	ID        int64
	EventName string
	Bout      string
	FightURL  sql.NullString
	Status    string
	Winner    sql.NullString
}

type FightMetaDetail struct {
	ID          int64
	EventName   string
	Bout        string
	Winner      sql.NullString
	Result      string
	WeightClass string
	Method      string
	Round       string
	Time        string
	TimeFormat  string
	Referee     string
	FightURL    string
}

type RoundFightStat struct {
	ID          int64
	EventName   string
	Bout        string
	FighterName string
	Round       int64

	Kd                    int64
	SigStrikesLanded      int64
	SigStrikesAttempted   int64
	TotalStrikesLanded    int64
	TotalStrikesAttempted int64
	TakedownsLanded       int64
	TakedownsAttempted    int64
	SubAttempts           int64
	Reversals             int64
	ControlTime           string
	ControlTimeSec        int64

	SigStrikesHeadLanded        int64
	SigStrikesHeadAttempted     int64
	SigStrikesBodyLanded        int64
	SigStrikesBodyAttempted     int64
	SigStrikesLegLanded         int64
	SigStrikesLegAttempted      int64
	SigStrikesDistanceLanded    int64
	SigStrikesDistanceAttempted int64
	SigStrikesClinchLanded      int64
	SigStrikesClinchAttempted   int64
	SigStrikesGroundLanded      int64
	SigStrikesGroundAttempted   int64
}

// ScrapingStatus is one row of the fight_scraping_status view.
type ScrapingStatus struct {
	EventName   string
	Bout        string
	FightURL    string
	FightStatus string
}
