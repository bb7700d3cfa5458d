package provisioning

import (
	"context"
	"errors"
	"testing"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	failTeams   map[string]bool
	panicRepos  map[string]bool
	failMembers map[string]bool
	grants      map[string]string
	visibility  map[string]bool
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		failTeams:   map[string]bool{},
		panicRepos:  map[string]bool{},
		failMembers: map[string]bool{},
		grants:      map[string]string{},
		visibility:  map[string]bool{},
	}
}

func (f *fakeProvider) CreateTeam(_ context.Context, name string) (string, error) {
	if f.failTeams[name] {
		return "", errors.New("422 validation failed")
	}
	return name, nil
}

func (f *fakeProvider) CreateRepo(_ context.Context, name string, private bool) (string, error) {
	if f.panicRepos[name] {
		panic("nil response")
	}
	f.visibility[name] = private
	return name, nil
}

func (f *fakeProvider) GrantTeamRepo(_ context.Context, teamSlug, repo, permission string) error {
	f.grants[teamSlug+"/"+repo] = permission
	return nil
}

func (f *fakeProvider) AddTeamMember(_ context.Context, _, username string) error {
	if f.failMembers[username] {
		return errors.New("404 user not found")
	}
	return nil
}

func (f *fakeProvider) InviteToOrg(_ context.Context, username string) (string, error) {
	if username == "ghost" {
		return "", errors.New("404")
	}
	return "pending", nil
}

func (f *fakeProvider) SetRepoVisibility(_ context.Context, repo string, private bool) error {
	f.visibility[repo] = private
	return nil
}

func TestProvisionTeams(t *testing.T) {
	logging.Log = logrus.New()

	t.Run("Happy path and per item failures", func(t *testing.T) {
		provider := newFakeProvider()
		provider.failTeams["hf-team-002"] = true
		provider.panicRepos["hf-003"] = true
		provider.failMembers["nobody"] = true
		p := NewProvisioner(provider, "hf")

		report, results := p.ProvisionTeams(context.TODO(), []Target{
			{TeamID: 1, Number: 1, Name: "Null Pointers", Usernames: []string{"alice"}},
			{TeamID: 2, Number: 2, Name: "Segfaults"},
			{TeamID: 3, Number: 3, Name: "Off By One"},
			{TeamID: 4, Number: 4, Name: "Heisenbugs", Usernames: []string{"nobody"}},
			{TeamID: 5, Number: 5, Name: "Done Already", Slug: "hf-team-005"},
		})

		assert.Equal(t, 1, report.Succeeded)
		require.Len(t, report.Failed, 3)
		assert.Equal(t, "Segfaults", report.Failed[0].Name)
		assert.Equal(t, "Off By One", report.Failed[1].Name)
		assert.Contains(t, report.Failed[1].Error, "internal error")
		assert.Equal(t, "Heisenbugs", report.Failed[2].Name)

		require.Len(t, results, 2)
		assert.Equal(t, Result{TeamID: 1, Slug: "hf-team-001", Repos: []string{"hf-001"}}, results[0])
		assert.Equal(t, 4, results[1].TeamID)
		assert.Equal(t, PermissionPush, provider.grants["hf-team-001/hf-001"])
		assert.True(t, provider.visibility["hf-001"])
	})
}

func TestVisibilityAndCommitAccess(t *testing.T) {
	logging.Log = logrus.New()
	provider := newFakeProvider()
	p := NewProvisioner(provider, "hf")
	targets := []Target{
		{TeamID: 1, Name: "Null Pointers", Slug: "hf-team-001", Repos: []string{"hf-001"}},
		{TeamID: 2, Name: "Segfaults"},
	}

	report := p.SetVisibility(context.TODO(), targets, false)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Failed, 1)
	assert.False(t, provider.visibility["hf-001"])

	report = p.SetCommitAccess(context.TODO(), targets, false)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, PermissionPull, provider.grants["hf-team-001/hf-001"])
}

func TestInvite(t *testing.T) {
	logging.Log = logrus.New()
	p := NewProvisioner(newFakeProvider(), "hf")

	inv, err := p.Invite(context.TODO(), " alice ")
	require.NoError(t, err)
	assert.Equal(t, &Invitation{Username: "alice", State: "pending"}, inv)

	_, err = p.Invite(context.TODO(), "")
	assert.Error(t, err)
	_, err = p.Invite(context.TODO(), "ghost")
	assert.Error(t, err)
}
