package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dashboardTeams() []TeamView {
	return []TeamView{
		{ID: 1, Number: 1, Name: "Null Pointers", Progress: ProgressSelected, Track: "FINTECH", Payment: PaymentPaid, MemberCount: 4, IdeaSubmitted: true},
		{ID: 2, Number: 2, Name: "Segfaults", Progress: ProgressTop15, Track: "HEALTHCARE", Payment: PaymentPaid, MemberCount: 3, IdeaSubmitted: true},
		{ID: 3, Number: 3, Name: "Off By One", Progress: ProgressNotSelected, Track: "FINTECH", Payment: PaymentPending, MemberCount: 2},
		{ID: 4, Number: 4, Name: "Race Conditions", Progress: ProgressWinner, Track: "LOGISTICS", Payment: PaymentPaid, MemberCount: 4, IdeaSubmitted: true},
		{ID: 5, Number: 5, Name: "Heisenbugs", Progress: ProgressTrack, Track: "FINTECH", Payment: PaymentPaid, MemberCount: 4, IdeaSubmitted: true},
	}
}

func TestFilterTeams(t *testing.T) {
	teams := dashboardTeams()

	t.Run("Happy path - empty filter matches all", func(t *testing.T) {
		assert.Len(t, FilterTeams(teams, TeamFilter{}), len(teams))
	})

	t.Run("Happy path - progress and track", func(t *testing.T) {
		out := FilterTeams(teams, TeamFilter{Progress: []TeamProgress{ProgressSelected, ProgressNotSelected}, Track: "FINTECH"})
		require.Len(t, out, 2)
		assert.Equal(t, 1, out[0].ID)
		assert.Equal(t, 3, out[1].ID)
	})

	t.Run("Happy path - complete only and payment", func(t *testing.T) {
		out := FilterTeams(teams, TeamFilter{CompleteOnly: true, Payment: PaymentPaid})
		assert.Len(t, out, 4)
	})

	t.Run("Happy path - case insensitive search", func(t *testing.T) {
		out := FilterTeams(teams, TeamFilter{Search: "segf"})
		require.Len(t, out, 1)
		assert.Equal(t, "Segfaults", out[0].Name)
	})
}

func TestRankTeams(t *testing.T) {
	teams := dashboardTeams()[:3]
	summaries := map[int]TeamSummary{
		1: {TeamID: 1, Normalized: 70, RawPercentage: 60},
		2: {TeamID: 2, Normalized: 70, RawPercentage: 80},
	}

	t.Run("Happy path - normalized first then raw then number", func(t *testing.T) {
		rows := RankTeams(teams, summaries, SortNormalized)
		require.Len(t, rows, 3)
		assert.Equal(t, 2, rows[0].Team.ID)
		assert.Equal(t, 1, rows[1].Team.ID)
		assert.Equal(t, 3, rows[2].Team.ID)
		assert.Equal(t, 1, rows[0].Rank)
		assert.Equal(t, 3, rows[2].Rank)
		assert.NotNil(t, rows[2].Summary.Judges)
	})

	t.Run("Happy path - by number", func(t *testing.T) {
		rows := RankTeams(teams, summaries, SortNumber)
		assert.Equal(t, 1, rows[0].Team.ID)
	})

	t.Run("Unhappy path - unknown sort key", func(t *testing.T) {
		_, err := ParseSortKey("vibes")
		assert.Error(t, err)
		key, err := ParseSortKey("")
		require.NoError(t, err)
		assert.Equal(t, SortNormalized, key)
	})
}

func TestAwardHolders(t *testing.T) {
	holders := AwardHolders(dashboardTeams())
	require.Len(t, holders, 2)
	assert.Equal(t, ProgressWinner, holders[0].Award)
	assert.Equal(t, "Race Conditions", holders[0].TeamName)
	assert.Equal(t, ProgressTrack, holders[1].Award)
	assert.Equal(t, "FINTECH", holders[1].Track)
}

func TestRemarks(t *testing.T) {
	points, err := CleanRemarkPoints([]string{"  good pitch ", "", "weak demo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"good pitch", "weak demo"}, points)

	_, err = CleanRemarkPoints([]string{" ", ""})
	assert.Equal(t, CodeValidation, CodeOf(err))

	assert.Equal(t, []string{"a", "b c"}, DecodeLegacyRemark("a;;; b c ;;;"))
}

func TestViewsFor(t *testing.T) {
	assert.Equal(t, ViewProfile, ViewsFor(RoleParticipant, "")[0])
	assert.Equal(t, []View{ViewValidation}, ViewsFor(RoleJudge, JudgeValidator))
	assert.True(t, CanOpenView(RoleAdmin, "", ViewAuditLog))
	assert.False(t, CanOpenView(RoleOrganiser, "", ViewAuditLog))
	assert.False(t, CanOpenView(RoleJudge, JudgeRemark, ViewScoring))
}
