package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	testutils "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/controllers/testing"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/chat"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/provisioning"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/views"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var testArenas = []string{"ADA", "TURING"}

type fixture struct {
	router       *gin.Engine
	participants *testutils.MemoryParticipants
	teams        *testutils.MemoryTeams
	criteria     *testutils.MemoryCriteria
	judges       *testutils.MemoryJudges
	scores       *testutils.MemoryScores
	remarks      *testutils.MemoryRemarks
	settings     *testutils.MemorySettings
	audit        *testutils.MemoryAudit
	github       *fakeProvider
	redis        *miniredis.Miniredis
}

// setupFixture wires every controller to in-memory storage, miniredis and a fake GitHub.
func setupFixture(t *testing.T, settings storage.AppSettings) *fixture {
	t.Helper()
	logging.Log = logrus.New()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &fixture{
		participants: testutils.NewMemoryParticipants(),
		criteria:     testutils.NewMemoryCriteria(),
		judges:       testutils.NewMemoryJudges(),
		scores:       testutils.NewMemoryScores(),
		remarks:      testutils.NewMemoryRemarks(),
		settings:     testutils.NewMemorySettings(settings),
		audit:        &testutils.MemoryAudit{},
		github:       newFakeProvider(),
		redis:        mr,
	}
	f.teams = testutils.NewMemoryTeams(f.participants)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := transport.AuthMiddleware(testutils.Secret, func(ctx context.Context, userID int) (domain.JudgeType, error) {
		j, err := f.judges.Get(ctx, userID)
		if err != nil {
			return "", err
		}
		return domain.JudgeType(j.Type), nil
	})

	NewParticipantController(f.participants, f.settings).RegisterRoutes(r, auth)
	NewTeamController(f.teams, f.participants, f.settings, domain.MaxTeamSize).RegisterRoutes(r, auth)
	NewIdeaController(f.teams, f.settings).RegisterRoutes(r, auth)
	NewCriteriaMetaController(f.criteria, f.scores, f.audit).RegisterRoutes(r, auth)
	NewJudgeController(f.judges).RegisterRoutes(r, auth)
	NewScoringController(f.scores, f.criteria, f.teams).RegisterRoutes(r, auth)
	NewProgressController(f.teams, f.criteria, f.scores, f.settings, f.audit).RegisterRoutes(r, auth)
	NewRemarkController(f.remarks, f.teams).RegisterRoutes(r, auth)
	NewAttendanceController(f.participants, f.audit).RegisterRoutes(r, auth)
	NewAllocationController(f.teams, testArenas, f.audit).RegisterRoutes(r, auth)
	NewGithubController(provisioning.NewProvisioner(f.github, "hf"), f.teams, f.participants, f.audit).RegisterRoutes(r, auth)
	NewChatController(chat.NewService(rdb), f.participants, f.teams).RegisterRoutes(r, auth)
	NewAuditController(f.audit).RegisterRoutes(r, auth)
	NewSettingsController(f.settings, views.NewStore(rdb), f.audit).RegisterRoutes(r, auth)
	NewAnalyticsController(f.participants, f.teams).RegisterRoutes(r, auth)

	f.router = r
	return f
}

func openEvent() storage.AppSettings {
	return storage.AppSettings{
		IsRegistrationOpen:    true,
		IsVideoSubmissionOpen: true,
		IsProfileEditOpen:     true,
	}
}

// seedParticipants registers participants with ids from..to.
func (f *fixture) seedParticipants(t *testing.T, from, to int) {
	t.Helper()
	for id := from; id <= to; id++ {
		require.NoError(t, f.participants.Create(context.TODO(), &storage.Participant{
			ID:             id,
			Name:           fmt.Sprintf("Participant %d", id),
			College:        "NMAMIT",
			GithubUsername: fmt.Sprintf("user%d", id),
			QRCode:         fmt.Sprintf("CODE%d", id),
		}))
	}
}

// seedTeam stores a team led by members[0] with the given progress and track.
func (f *fixture) seedTeam(t *testing.T, id int, name string, progress domain.TeamProgress, track string, members ...int) *storage.Team {
	t.Helper()
	team := &storage.Team{
		ID:            id,
		Number:        id,
		Name:          name,
		LeaderID:      members[0],
		Members:       members,
		Progress:      string(progress),
		PaymentStatus: string(domain.PaymentPending),
	}
	if track != "" {
		team.Idea = &storage.IdeaSubmission{Track: track, PptURL: "https://example.com/deck.pdf"}
	}
	f.teams.Seed(team)
	return team
}

func (f *fixture) seedJudge(t *testing.T, id int, judgeType domain.JudgeType) {
	t.Helper()
	require.NoError(t, f.judges.Put(context.TODO(), &storage.Judge{ID: id, Name: fmt.Sprintf("Judge %d", id), Type: string(judgeType)}))
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

// fakeProvider records calls; names listed in failTeams fail on CreateTeam.
type fakeProvider struct {
	teams       map[string][]string
	repos       map[string]bool
	permissions map[string]string
	failTeams   map[string]bool
	invited     []string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		teams:       map[string][]string{},
		repos:       map[string]bool{},
		permissions: map[string]string{},
		failTeams:   map[string]bool{},
	}
}

func (p *fakeProvider) CreateTeam(_ context.Context, name string) (string, error) {
	if p.failTeams[name] {
		return "", fmt.Errorf("github refused team %s", name)
	}
	p.teams[name] = nil
	return name, nil
}

func (p *fakeProvider) CreateRepo(_ context.Context, name string, private bool) (string, error) {
	p.repos[name] = private
	return name, nil
}

func (p *fakeProvider) GrantTeamRepo(_ context.Context, teamSlug, repo, permission string) error {
	p.permissions[teamSlug+"/"+repo] = permission
	return nil
}

func (p *fakeProvider) AddTeamMember(_ context.Context, teamSlug, username string) error {
	p.teams[teamSlug] = append(p.teams[teamSlug], username)
	return nil
}

func (p *fakeProvider) InviteToOrg(_ context.Context, username string) (string, error) {
	p.invited = append(p.invited, username)
	return "pending", nil
}

func (p *fakeProvider) SetRepoVisibility(_ context.Context, repo string, private bool) error {
	if _, ok := p.repos[repo]; !ok {
		return fmt.Errorf("repo %s not found", repo)
	}
	p.repos[repo] = private
	return nil
}
