package models

type AnalyticsResponse struct {
	Participants   int            `json:"participants"`
	Attended       int            `json:"attended"`
	Teams          int            `json:"teams"`
	CompleteTeams  int            `json:"completeTeams"`
	IdeasSubmitted int            `json:"ideasSubmitted"`
	ByProgress     map[string]int `json:"byProgress"`
	ByTrack        map[string]int `json:"byTrack"`
	ByPayment      map[string]int `json:"byPayment"`
	ByCollege      map[string]int `json:"byCollege"`
}
