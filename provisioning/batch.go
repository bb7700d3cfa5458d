package provisioning

import (
	"context"
	"fmt"
	"strings"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/metrics"
)

const (
	PermissionPush = "push"
	PermissionPull = "pull"
)

// Target is one hackathon team as the provisioning batch sees it.
type Target struct {
	TeamID    int
	Number    int
	Name      string
	Slug      string
	Repos     []string
	Usernames []string
}

// Result is what ProvisionTeams created for a team.
type Result struct {
	TeamID int      `json:"teamId"`
	Slug   string   `json:"slug"`
	Repos  []string `json:"repos"`
}

type Failure struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type Report struct {
	Succeeded int       `json:"succeeded"`
	Failed    []Failure `json:"failed"`
}

type Invitation struct {
	Username string `json:"username"`
	State    string `json:"state"`
}

type Provisioner struct {
	provider   Provider
	repoPrefix string
}

func NewProvisioner(provider Provider, repoPrefix string) *Provisioner {
	return &Provisioner{provider: provider, repoPrefix: repoPrefix}
}

// RepoName is the repository created for team number n.
func (p *Provisioner) RepoName(number int) string {
	return fmt.Sprintf("%s-%03d", p.repoPrefix, number)
}

func (p *Provisioner) teamName(number int) string {
	return fmt.Sprintf("%s-team-%03d", p.repoPrefix, number)
}

// runItem turns a panic into an error so one team cannot take down the batch.
func runItem(op, name string, report *Report, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Log.Errorf("GITHUB: %s for %s panicked: %v", op, name, r)
			report.Failed = append(report.Failed, Failure{Name: name, Error: fmt.Sprintf("internal error: %v", r)})
			metrics.GithubItems.WithLabelValues(op, "failed").Inc()
			ok = false
		}
	}()

	if err := fn(); err != nil {
		logging.Log.Errorf("GITHUB: %s for %s failed: %v", op, name, err)
		report.Failed = append(report.Failed, Failure{Name: name, Error: err.Error()})
		metrics.GithubItems.WithLabelValues(op, "failed").Inc()
		return false
	}
	report.Succeeded++
	metrics.GithubItems.WithLabelValues(op, "succeeded").Inc()
	return true
}

func newReport() Report {
	return Report{Failed: make([]Failure, 0)}
}

// ProvisionTeams creates a private repository and a GitHub team per target, gives the
// team push access and adds its members. Teams that already have a slug are skipped.
func (p *Provisioner) ProvisionTeams(ctx context.Context, targets []Target) (Report, []Result) {
	report := newReport()
	results := make([]Result, 0, len(targets))

	for _, t := range targets {
		if t.Slug != "" {
			continue
		}
		var result Result
		ok := runItem("provision", t.Name, &report, func() error {
			slug, err := p.provider.CreateTeam(ctx, p.teamName(t.Number))
			if err != nil {
				return err
			}
			repo, err := p.provider.CreateRepo(ctx, p.RepoName(t.Number), true)
			if err != nil {
				return err
			}
			if err := p.provider.GrantTeamRepo(ctx, slug, repo, PermissionPush); err != nil {
				return err
			}
			var missing []string
			for _, username := range t.Usernames {
				if err := p.provider.AddTeamMember(ctx, slug, username); err != nil {
					missing = append(missing, username)
				}
			}
			result = Result{TeamID: t.TeamID, Slug: slug, Repos: []string{repo}}
			if len(missing) > 0 {
				return fmt.Errorf("could not add %s", strings.Join(missing, ", "))
			}
			return nil
		})
		// A team whose repo exists is recorded even when some members could not be added.
		if ok || result.Slug != "" {
			results = append(results, result)
		}
	}
	logging.Log.Infof("GITHUB: provisioned %d teams, %d failed", report.Succeeded, len(report.Failed))
	return report, results
}

// SetVisibility makes every repository of the targets private or public.
func (p *Provisioner) SetVisibility(ctx context.Context, targets []Target, private bool) Report {
	report := newReport()
	for _, t := range targets {
		runItem("visibility", t.Name, &report, func() error {
			if len(t.Repos) == 0 {
				return domain.Validationf("team %s has no repositories", t.Name)
			}
			for _, repo := range t.Repos {
				if err := p.provider.SetRepoVisibility(ctx, repo, private); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return report
}

// SetCommitAccess switches the targets' teams between push and pull on their repositories.
func (p *Provisioner) SetCommitAccess(ctx context.Context, targets []Target, allow bool) Report {
	permission := PermissionPull
	if allow {
		permission = PermissionPush
	}

	report := newReport()
	for _, t := range targets {
		runItem("commit-access", t.Name, &report, func() error {
			if t.Slug == "" {
				return domain.Validationf("team %s is not provisioned", t.Name)
			}
			for _, repo := range t.Repos {
				if err := p.provider.GrantTeamRepo(ctx, t.Slug, repo, permission); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return report
}

func (p *Provisioner) Invite(ctx context.Context, username string) (*Invitation, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validationf("github username is required")
	}
	state, err := p.provider.InviteToOrg(ctx, username)
	if err != nil {
		logging.Log.Errorf("GITHUB: invite %s failed: %v", username, err)
		return nil, domain.Internalf("could not invite %s", username)
	}
	return &Invitation{Username: username, State: state}, nil
}
