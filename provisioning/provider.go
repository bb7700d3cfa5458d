// Package provisioning creates GitHub teams and repositories for hackathon teams and
// manages their access. Batch operations never stop at the first failure: every team is
// attempted and the outcome is summarised in a Report.
package provisioning

import (
	"context"
	"fmt"

	"github.com/google/go-github/v68/github"
)

// Provider is the subset of the source-control host the batch operations need.
type Provider interface {
	CreateTeam(ctx context.Context, name string) (string, error)
	CreateRepo(ctx context.Context, name string, private bool) (string, error)
	GrantTeamRepo(ctx context.Context, teamSlug, repo, permission string) error
	AddTeamMember(ctx context.Context, teamSlug, username string) error
	InviteToOrg(ctx context.Context, username string) (string, error)
	SetRepoVisibility(ctx context.Context, repo string, private bool) error
}

// GithubProvider talks to one GitHub organisation.
type GithubProvider struct {
	client *github.Client
	org    string
}

func NewGithubProvider(client *github.Client, org string) *GithubProvider {
	return &GithubProvider{client: client, org: org}
}

// NewGithubProviderWithToken authenticates every call with a personal access token.
func NewGithubProviderWithToken(token, org string) *GithubProvider {
	return NewGithubProvider(github.NewClient(nil).WithAuthToken(token), org)
}

func (p *GithubProvider) CreateTeam(ctx context.Context, name string) (string, error) {
	team, _, err := p.client.Teams.CreateTeam(ctx, p.org, github.NewTeam{
		Name:    name,
		Privacy: github.Ptr("closed"),
	})
	if err != nil {
		return "", fmt.Errorf("create team %s: %w", name, err)
	}
	return team.GetSlug(), nil
}

func (p *GithubProvider) CreateRepo(ctx context.Context, name string, private bool) (string, error) {
	repo, _, err := p.client.Repositories.Create(ctx, p.org, &github.Repository{
		Name:     github.Ptr(name),
		Private:  github.Ptr(private),
		AutoInit: github.Ptr(true),
	})
	if err != nil {
		return "", fmt.Errorf("create repo %s: %w", name, err)
	}
	return repo.GetName(), nil
}

// GrantTeamRepo sets the team's permission on repo: "push" to allow commits, "pull" for read only.
func (p *GithubProvider) GrantTeamRepo(ctx context.Context, teamSlug, repo, permission string) error {
	_, err := p.client.Teams.AddTeamRepoBySlug(ctx, p.org, teamSlug, p.org, repo, &github.TeamAddTeamRepoOptions{
		Permission: permission,
	})
	if err != nil {
		return fmt.Errorf("grant %s on %s to %s: %w", permission, repo, teamSlug, err)
	}
	return nil
}

func (p *GithubProvider) AddTeamMember(ctx context.Context, teamSlug, username string) error {
	_, _, err := p.client.Teams.AddTeamMembershipBySlug(ctx, p.org, teamSlug, username, &github.TeamAddTeamMembershipOptions{
		Role: "member",
	})
	if err != nil {
		return fmt.Errorf("add %s to %s: %w", username, teamSlug, err)
	}
	return nil
}

// InviteToOrg returns the membership state, "pending" until the user accepts.
func (p *GithubProvider) InviteToOrg(ctx context.Context, username string) (string, error) {
	membership, _, err := p.client.Organizations.EditOrgMembership(ctx, username, p.org, &github.Membership{
		Role: github.Ptr("member"),
	})
	if err != nil {
		return "", fmt.Errorf("invite %s: %w", username, err)
	}
	return membership.GetState(), nil
}

func (p *GithubProvider) SetRepoVisibility(ctx context.Context, repo string, private bool) error {
	_, _, err := p.client.Repositories.Edit(ctx, p.org, repo, &github.Repository{
		Private: github.Ptr(private),
	})
	if err != nil {
		return fmt.Errorf("set visibility of %s: %w", repo, err)
	}
	return nil
}
