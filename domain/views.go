package domain

// View identifies a dashboard tab.
type View string

const (
	ViewProfile      View = "PROFILE"
	ViewTeam         View = "TEAM"
	ViewIdea         View = "IDEA"
	ViewChat         View = "CHAT"
	ViewAttendance   View = "ATTENDANCE"
	ViewTeams        View = "TEAMS"
	ViewAnalytics    View = "ANALYTICS"
	ViewAllocations  View = "ALLOCATIONS"
	ViewAuditLog     View = "AUDIT_LOG"
	ViewCriteria     View = "CRITERIA"
	ViewJudges       View = "JUDGES"
	ViewGithub       View = "GITHUB"
	ViewSettings     View = "SETTINGS"
	ViewValidation   View = "VALIDATION"
	ViewScoring      View = "SCORING"
	ViewRemarks      View = "REMARKS"
	ViewLeaderboard  View = "LEADERBOARD"
	ViewFinalResults View = "FINAL_RESULTS"
)

var roleViews = map[Role][]View{
	RoleParticipant: {ViewProfile, ViewTeam, ViewIdea, ViewChat},
	RoleVolunteer:   {ViewProfile, ViewAttendance},
	RoleOrganiser:   {ViewTeams, ViewAnalytics, ViewAllocations, ViewAttendance, ViewLeaderboard, ViewChat},
	RoleAdmin: {
		ViewTeams, ViewAnalytics, ViewAllocations, ViewAttendance, ViewAuditLog, ViewCriteria,
		ViewJudges, ViewGithub, ViewSettings, ViewLeaderboard, ViewFinalResults, ViewChat,
	},
}

var judgeViews = map[JudgeType][]View{
	JudgeValidator:      {ViewValidation},
	JudgeSuperValidator: {ViewValidation, ViewLeaderboard},
	JudgeDay2Round1:     {ViewScoring},
	JudgeDay2Round2:     {ViewScoring, ViewLeaderboard},
	JudgeDay3Finals:     {ViewScoring, ViewFinalResults},
	JudgeRemark:         {ViewRemarks},
}

// ViewsFor returns the tabs a role may open; the first entry is the default tab.
func ViewsFor(role Role, judgeType JudgeType) []View {
	if role == RoleJudge {
		return judgeViews[judgeType]
	}
	return roleViews[role]
}

func CanOpenView(role Role, judgeType JudgeType, v View) bool {
	for _, allowed := range ViewsFor(role, judgeType) {
		if allowed == v {
			return true
		}
	}
	return false
}
