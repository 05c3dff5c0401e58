package tapology

import _ "embed"

// CSS extraction schemas shipped with the binary. The extraction
// service applies them to the fetched page and returns structured JSON.
var (
	//go:embed schemas/schema_events_urls.json
	schemaEventListing []byte

	//go:embed schemas/schema_events.json
	schemaEvent []byte

	//go:embed schemas/schema_profiles.json
	schemaFighterProfile []byte
)

// Wire shapes of the extracted documents. Every scalar arrives as text
// because the extractor reads DOM nodes; numeric fields are parsed by
// the client.

type listingEnvelope struct {
	URLs []listingItem `json:"URLs"`
}

type listingItem struct {
	URL  string `json:"url"`
	Date string `json:"date"`
}

type eventEnvelope struct {
	Header    []eventHeaderItem `json:"Header"`
	FightCard []fightCardItem   `json:"Fight Card"`
}

type eventHeaderItem struct {
	EventName string `json:"event_name"`
	Promotion string `json:"promotion"`
	Datetime  string `json:"datetime"`
	Venue     string `json:"venue"`
	Location  string `json:"location"`
	Broadcast string `json:"broadcast"`
	MMABouts  string `json:"mma_bouts"`
	ImgURL    string `json:"img_url"`
}

type fightCardItem struct {
	Fighter1        string `json:"fighter_1"`
	Fighter2        string `json:"fighter_2"`
	URLFighter1     string `json:"url_fighter_1"`
	URLFighter2     string `json:"url_fighter_2"`
	ResultFighter1  string `json:"result_fighter_1"`
	ResultFighter2  string `json:"result_fighter_2"`
	WeightClass     string `json:"weight_class"`
	BoutOrder       string `json:"bout_order"`
	FinishBy        string `json:"finish_by"`
	FinishByDetails string `json:"finish_by_details"`
	Rounds          string `json:"rounds"`
}

type profileEnvelope struct {
	BasicInfos    []profileInfoItem `json:"Basic Infos"`
	ProfileImgURL string            `json:"profile_img_url"`
}

type profileInfoItem struct {
	Name             string `json:"name"`
	Nickname         string `json:"nickname"`
	Age              string `json:"age"`
	DateOfBirth      string `json:"date_of_birth"`
	Height           string `json:"height"`
	WeightClass      string `json:"weight_class"`
	LastWeightIn     string `json:"last_weight_in"`
	LastFightDate    string `json:"last_fight_date"`
	Born             string `json:"born"`
	HeadCoach        string `json:"head_coach"`
	OtherCoaches     string `json:"other_coaches"`
	Affiliation      string `json:"affiliation"`
	ProMMARecord     string `json:"pro_mma_record"`
	CurrentMMAStreak string `json:"current_mma_streak"`
}
