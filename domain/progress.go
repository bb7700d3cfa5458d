// Package domain holds the hackathon rules that do not depend on storage or transport:
// the team progress state machine, judge pools, score normalization, star mappings and
// the selection dashboard helpers.
package domain

import "fmt"

// TeamProgress is the selection pipeline status of a team.
type TeamProgress string

const (
	ProgressNotSelected  TeamProgress = "NOT_SELECTED"
	ProgressSemiSelected TeamProgress = "SEMI_SELECTED"
	ProgressSelected     TeamProgress = "SELECTED"
	ProgressTop15        TeamProgress = "TOP15"
	ProgressWinner       TeamProgress = "WINNER"
	ProgressRunner       TeamProgress = "RUNNER"
	ProgressSecondRunner TeamProgress = "SECOND_RUNNER"
	ProgressTrack        TeamProgress = "TRACK"
)

var AllProgress = []TeamProgress{
	ProgressNotSelected,
	ProgressSemiSelected,
	ProgressSelected,
	ProgressTop15,
	ProgressWinner,
	ProgressRunner,
	ProgressSecondRunner,
	ProgressTrack,
}

func (p TeamProgress) Valid() bool {
	for _, v := range AllProgress {
		if v == p {
			return true
		}
	}
	return false
}

// IsAward reports whether at most one team may hold p (one per track for TRACK).
func (p TeamProgress) IsAward() bool {
	switch p {
	case ProgressWinner, ProgressRunner, ProgressSecondRunner, ProgressTrack:
		return true
	}
	return false
}

// AwardSlotKey names the uniqueness slot a team occupies while holding an award.
func AwardSlotKey(p TeamProgress, track string) string {
	if p == ProgressTrack {
		return fmt.Sprintf("award#%s#%s", p, track)
	}
	return fmt.Sprintf("award#%s", p)
}

// ParseProgress validates a client supplied progress value.
func ParseProgress(s string) (TeamProgress, error) {
	p := TeamProgress(s)
	if !p.Valid() {
		return "", Validationf("unknown team progress %q", s)
	}
	return p, nil
}

// Actor is whoever is asking for a change. JudgeType is empty unless Role is RoleJudge.
type Actor struct {
	UserID    int
	Role      Role
	JudgeType JudgeType
}

// AuthorizeTransition decides whether actor may move a team from current to target.
//
// Admins may set any state. Day 3 finals judges may only toggle a team between
// SELECTED and TOP15. Everyone else is denied.
func AuthorizeTransition(actor Actor, current, target TeamProgress) error {
	if !target.Valid() {
		return Validationf("unknown team progress %q", target)
	}

	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleJudge:
		if actor.JudgeType != JudgeDay3Finals {
			return Forbiddenf("judges of type %s cannot change team progress", actor.JudgeType)
		}
		if !isFinalsToggle(current) {
			return Validationf("team is %s, finals judges can only act on SELECTED or TOP15 teams", current)
		}
		if !isFinalsToggle(target) {
			return Forbiddenf("finals judges can only set SELECTED or TOP15, not %s", target)
		}
		return nil
	default:
		return Forbiddenf("role %s cannot change team progress", actor.Role)
	}
}

func isFinalsToggle(p TeamProgress) bool {
	return p == ProgressSelected || p == ProgressTop15
}

// CheckAwardAvailable scans teams for another holder of the award slot target would occupy.
// The store enforces the same rule transactionally; this gives a message naming the holder.
func CheckAwardAvailable(teams []TeamView, teamID int, target TeamProgress, track string) error {
	if !target.IsAward() {
		return nil
	}
	key := AwardSlotKey(target, track)
	for _, t := range teams {
		if t.ID == teamID || !t.Progress.IsAward() {
			continue
		}
		if AwardSlotKey(t.Progress, t.Track) == key {
			if target == ProgressTrack {
				return Conflictf("team %q already holds the %s award for track %s", t.Name, target, track)
			}
			return Conflictf("team %q already holds %s", t.Name, target)
		}
	}
	return nil
}
