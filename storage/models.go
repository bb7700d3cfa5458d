package storage

import (
	"fmt"
	"time"
)

type Participant struct {
	ID             int        `dynamodbav:"PK"`
	Name           string     `dynamodbav:"Name"`
	Email          string     `dynamodbav:"Email"`
	Phone          string     `dynamodbav:"Phone"`
	College        string     `dynamodbav:"College"`
	GithubUsername string     `dynamodbav:"GithubUsername"`
	TeamID         int        `dynamodbav:"TeamID"`
	QRCode         string     `dynamodbav:"QRCode"`
	Attended       bool       `dynamodbav:"Attended"`
	AttendedAt     *time.Time `dynamodbav:"AttendedAt,omitempty"`
	CreatedAt      time.Time  `dynamodbav:"CreatedAt"`
}

type IdeaSubmission struct {
	Track       string    `dynamodbav:"Track"`
	PptURL      string    `dynamodbav:"PptURL"`
	SubmittedAt time.Time `dynamodbav:"SubmittedAt"`
}

type Team struct {
	ID             int             `dynamodbav:"PK"`
	Number         int             `dynamodbav:"Number"`
	Name           string          `dynamodbav:"Name"`
	LeaderID       int             `dynamodbav:"LeaderID"`
	Members        []int           `dynamodbav:"Members,numberset,omitempty"`
	Progress       string          `dynamodbav:"Progress"`
	PaymentStatus  string          `dynamodbav:"PaymentStatus"`
	Idea           *IdeaSubmission `dynamodbav:"Idea,omitempty"`
	VideoURL       string          `dynamodbav:"VideoURL,omitempty"`
	Arena          string          `dynamodbav:"Arena,omitempty"`
	GithubTeamSlug string          `dynamodbav:"GithubTeamSlug,omitempty"`
	Repos          []string        `dynamodbav:"Repos,omitempty"`
	CreatedAt      time.Time       `dynamodbav:"CreatedAt"`
}

// Track is empty until an idea is submitted.
func (t *Team) Track() string {
	if t.Idea == nil {
		return ""
	}
	return t.Idea.Track
}

type Criteria struct {
	ID        int    `dynamodbav:"PK"`
	Name      string `dynamodbav:"Name"`
	MaxScore  int    `dynamodbav:"MaxScore"`
	JudgeType string `dynamodbav:"JudgeType"`
}

type Judge struct {
	ID            int    `dynamodbav:"PK"`
	Name          string `dynamodbav:"Name"`
	Type          string `dynamodbav:"Type"`
	TutorialShown bool   `dynamodbav:"TutorialShown"`
}

// Score is unique per (team, criteria, judge); the key pair encodes that tuple.
type Score struct {
	PK         string    `dynamodbav:"PK" json:"-"`
	SortKey    string    `dynamodbav:"SK" json:"-"`
	TeamID     int       `dynamodbav:"TeamID"`
	CriteriaID int       `dynamodbav:"CriteriaID"`
	JudgeID    int       `dynamodbav:"JudgeID"`
	Score      int       `dynamodbav:"Score"`
	CreatedAt  time.Time `dynamodbav:"CreatedAt"`
	UpdatedAt  time.Time `dynamodbav:"UpdatedAt"`
}

func ScoreKey(teamID, criteriaID, judgeID int) (string, string) {
	return fmt.Sprintf("team#%d", teamID), fmt.Sprintf("crit#%d#judge#%d", criteriaID, judgeID)
}

// Remark is one judge's points for a team. Legacy holds the ";;;" joined text of
// rows imported from the old system and is empty for rows written here.
type Remark struct {
	TeamID    int       `dynamodbav:"PK"`
	JudgeID   int       `dynamodbav:"SK"`
	Points    []string  `dynamodbav:"Points"`
	Legacy    string    `dynamodbav:"Remark,omitempty"`
	UpdatedAt time.Time `dynamodbav:"UpdatedAt"`
}

// Slot is a uniqueness marker: award winners, arena allocations and counters live in the slots table.
type Slot struct {
	Key       string    `dynamodbav:"PK"`
	TeamID    int       `dynamodbav:"TeamID"`
	ClaimedAt time.Time `dynamodbav:"ClaimedAt"`
}

func ArenaSlotKey(arena string) string {
	return "arena#" + arena
}

type AppSettings struct {
	ID                    string `dynamodbav:"PK"`
	IsRegistrationOpen    bool   `dynamodbav:"IsRegistrationOpen"`
	IsPaymentOpen         bool   `dynamodbav:"IsPaymentOpen"`
	IsVideoSubmissionOpen bool   `dynamodbav:"IsVideoSubmissionOpen"`
	IsProfileEditOpen     bool   `dynamodbav:"IsProfileEditOpen"`
	IsResultOpen          bool   `dynamodbav:"IsResultOpen"`
}

const settingsID = "global"

// ProgressChange moves a team between states. Track is the team's idea track,
// used to key the per-track award slot.
type ProgressChange struct {
	TeamID int
	From   string
	To     string
	Track  string
}
