package usecase

import "context"

// EventExtractor is the upstream page-extraction collaborator. Raw
// carries the extracted payload bytes so change hashes are computed
// over exactly what the source returned.
type EventExtractor interface {
	ExtractEventListing(ctx context.Context, page int) (ScrapedListing, error)
	ExtractEvent(ctx context.Context, eventURL string) (*ScrapedEvent, error)
	ExtractFighterProfile(ctx context.Context, profileURL string) (*ScrapedProfile, error)
	ResolveURL(href string) string
}

type ScrapedListing struct {
	Entries []ListedEvent
}

type ListedEvent struct {
	URL      string
	DateText string
}

type ScrapedEvent struct {
	Header ScrapedEventHeader
	Bouts  []ScrapedBout
	Raw    []byte
}

type ScrapedEventHeader struct {
	Name      string
	Promotion string
	DateText  string
	Venue     string
	Location  string
	Broadcast string
	ImageURL  string
	BoutCount int
}

type ScrapedBout struct {
	Fighter1Name  string
	Fighter2Name  string
	Fighter1URL   string
	Fighter2URL   string
	WeightClass   string
	RoundsText    string
	Result1       string
	Result2       string
	FinishBy      string
	FinishDetails string
	BoutOrder     int
}

type ScrapedProfile struct {
	Name            string
	Nickname        string
	AgeText         string
	DateOfBirthText string
	HeightText      string
	WeightClass     string
	LastWeighInText string
	LastFightText   string
	Born            string
	HeadCoach       string
	OtherCoaches    string
	Affiliation     string
	Record          string
	StreakText      string
	ImageURL        string
	Raw             []byte
}
