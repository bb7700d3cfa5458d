package domain

import (
	"sort"
	"strings"
)

// TeamView is the projection of a team used by the dashboards.
type TeamView struct {
	ID            int
	Number        int
	Name          string
	Progress      TeamProgress
	Track         string
	Payment       PaymentStatus
	MemberCount   int
	IdeaSubmitted bool
}

// TeamFilter narrows the team list. Zero values match everything.
type TeamFilter struct {
	Progress     []TeamProgress
	Track        string
	Payment      PaymentStatus
	CompleteOnly bool
	Search       string
}

func (f TeamFilter) Match(t TeamView) bool {
	if len(f.Progress) > 0 {
		found := false
		for _, p := range f.Progress {
			if p == t.Progress {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Track != "" && f.Track != t.Track {
		return false
	}
	if f.Payment != "" && f.Payment != t.Payment {
		return false
	}
	if f.CompleteOnly && !IsComplete(t.MemberCount) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func FilterTeams(teams []TeamView, f TeamFilter) []TeamView {
	out := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortKey selects the ranking column of the scoring dashboard.
type SortKey string

const (
	SortNormalized SortKey = "normalized"
	SortRaw        SortKey = "raw"
	SortNumber     SortKey = "number"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortNormalized, nil
	case SortNormalized, SortRaw, SortNumber:
		return SortKey(s), nil
	}
	return "", Validationf("unknown sort key %q", s)
}

// RankedTeam is one dashboard row.
type RankedTeam struct {
	Rank    int
	Team    TeamView
	Summary TeamSummary
}

// RankTeams orders teams by key, highest score first. Teams without scores get an empty summary.
// Ties fall back to the other score column, then to the team number.
func RankTeams(teams []TeamView, summaries map[int]TeamSummary, key SortKey) []RankedTeam {
	rows := make([]RankedTeam, 0, len(teams))
	for _, t := range teams {
		s, ok := summaries[t.ID]
		if !ok {
			s = TeamSummary{TeamID: t.ID, Judges: []JudgeTotal{}}
		}
		rows = append(rows, RankedTeam{Team: t, Summary: s})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch key {
		case SortNumber:
			return a.Team.Number < b.Team.Number
		case SortRaw:
			if a.Summary.RawPercentage != b.Summary.RawPercentage {
				return a.Summary.RawPercentage > b.Summary.RawPercentage
			}
			if a.Summary.Normalized != b.Summary.Normalized {
				return a.Summary.Normalized > b.Summary.Normalized
			}
		default:
			if a.Summary.Normalized != b.Summary.Normalized {
				return a.Summary.Normalized > b.Summary.Normalized
			}
			if a.Summary.RawPercentage != b.Summary.RawPercentage {
				return a.Summary.RawPercentage > b.Summary.RawPercentage
			}
		}
		return a.Team.Number < b.Team.Number
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// AwardHolder names the team occupying an award slot.
type AwardHolder struct {
	Award    TeamProgress
	Track    string
	TeamID   int
	TeamName string
}

// AwardHolders lists award slots in a stable order: overall awards first, then track awards by track.
func AwardHolders(teams []TeamView) []AwardHolder {
	order := map[TeamProgress]int{
		ProgressWinner:       0,
		ProgressRunner:       1,
		ProgressSecondRunner: 2,
		ProgressTrack:        3,
	}
	holders := make([]AwardHolder, 0)
	for _, t := range teams {
		if !t.Progress.IsAward() {
			continue
		}
		h := AwardHolder{Award: t.Progress, TeamID: t.ID, TeamName: t.Name}
		if t.Progress == ProgressTrack {
			h.Track = t.Track
		}
		holders = append(holders, h)
	}
	sort.SliceStable(holders, func(i, j int) bool {
		if order[holders[i].Award] != order[holders[j].Award] {
			return order[holders[i].Award] < order[holders[j].Award]
		}
		if holders[i].Track != holders[j].Track {
			return holders[i].Track < holders[j].Track
		}
		return holders[i].TeamID < holders[j].TeamID
	})
	return holders
}
