package domain

// Role is the account role carried in the auth token.
type Role string

const (
	RoleParticipant Role = "PARTICIPANT"
	RoleVolunteer   Role = "VOLUNTEER"
	RoleOrganiser   Role = "ORGANISER"
	RoleJudge       Role = "JUDGE"
	RoleAdmin       Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleVolunteer, RoleOrganiser, RoleJudge, RoleAdmin:
		return true
	}
	return false
}

// JudgeType is the round a judge is allowed to score.
type JudgeType string

const (
	JudgeValidator      JudgeType = "VALIDATOR"
	JudgeSuperValidator JudgeType = "SUPER_VALIDATOR"
	JudgeDay2Round1     JudgeType = "DAY2_ROUND1"
	JudgeDay2Round2     JudgeType = "DAY2_ROUND2"
	JudgeDay3Finals     JudgeType = "DAY3_FINALS"
	JudgeRemark         JudgeType = "REMARK"
)

var AllJudgeTypes = []JudgeType{
	JudgeValidator,
	JudgeSuperValidator,
	JudgeDay2Round1,
	JudgeDay2Round2,
	JudgeDay3Finals,
	JudgeRemark,
}

func (j JudgeType) Valid() bool {
	for _, v := range AllJudgeTypes {
		if v == j {
			return true
		}
	}
	return false
}

// UsesValidatorStars reports whether the judge scores with the fixed five band star control.
func (j JudgeType) UsesValidatorStars() bool {
	return j == JudgeValidator || j == JudgeSuperValidator
}

// CanScore is false for remark-only judges.
func (j JudgeType) CanScore() bool {
	return j.Valid() && j != JudgeRemark
}

var judgePools = map[JudgeType][]TeamProgress{
	JudgeValidator:      {ProgressNotSelected},
	JudgeSuperValidator: {ProgressNotSelected, ProgressSemiSelected},
	JudgeDay2Round1:     {ProgressSelected, ProgressTop15},
	JudgeDay2Round2:     {ProgressSelected, ProgressTop15},
	JudgeDay3Finals: {
		ProgressTop15,
		ProgressWinner,
		ProgressRunner,
		ProgressSecondRunner,
		ProgressTrack,
	},
	JudgeRemark: {ProgressSelected, ProgressTop15},
}

// JudgePool returns the team progress states a judge type may act on.
func JudgePool(j JudgeType) []TeamProgress {
	return judgePools[j]
}

// InJudgePool reports whether a team in state p is visible to judges of type j.
func InJudgePool(j JudgeType, p TeamProgress) bool {
	for _, v := range judgePools[j] {
		if v == p {
			return true
		}
	}
	return false
}

// PaymentStatus of a team's registration fee.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// Tracks are the idea tracks a team can submit under.
var Tracks = []string{
	"FINTECH",
	"SUSTAINABLE_DEVELOPMENT",
	"HEALTHCARE",
	"LOGISTICS",
	"OPEN_INNOVATION",
}

func ValidTrack(track string) bool {
	for _, t := range Tracks {
		if t == track {
			return true
		}
	}
	return false
}

const (
	MinTeamSize = 3
	MaxTeamSize = 4
)

// IsComplete reports whether a team with memberCount members may submit an idea.
func IsComplete(memberCount int) bool {
	return memberCount >= MinTeamSize && memberCount <= MaxTeamSize
}
