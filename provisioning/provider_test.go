package provisioning

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGithub(t *testing.T, mux *http.ServeMux) *GithubProvider {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return NewGithubProvider(client, "hackfest")
}

func TestGithubProvider(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/hackfest/teams", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "hf-team-001", body["name"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"slug":"hf-team-001"}`))
	})
	mux.HandleFunc("/orgs/hackfest/repos", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, true, body["private"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"name":"hf-001","full_name":"hackfest/hf-001"}`))
	})
	mux.HandleFunc("/orgs/hackfest/memberships/alice", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		_, _ = w.Write([]byte(`{"state":"pending","role":"member"}`))
	})
	mux.HandleFunc("/orgs/hackfest/teams/hf-team-001/repos/hackfest/hf-001", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "pull", body["permission"])
		w.WriteHeader(http.StatusNoContent)
	})

	p := setupGithub(t, mux)
	ctx := context.TODO()

	slug, err := p.CreateTeam(ctx, "hf-team-001")
	require.NoError(t, err)
	assert.Equal(t, "hf-team-001", slug)

	repo, err := p.CreateRepo(ctx, "hf-001", true)
	require.NoError(t, err)
	assert.Equal(t, "hf-001", repo)

	state, err := p.InviteToOrg(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pending", state)

	require.NoError(t, p.GrantTeamRepo(ctx, slug, repo, PermissionPull))

	err = p.SetRepoVisibility(ctx, "unknown", false)
	assert.Error(t, err)
}
