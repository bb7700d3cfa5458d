package models

import "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/provisioning"

type GithubTeamsRequest struct {
	// TeamIDs empty means every SELECTED, TOP15 or award team.
	TeamIDs []int `json:"teamIds"`
}

type GithubVisibilityRequest struct {
	GithubTeamsRequest
	Private bool `json:"private"`
}

type GithubCommitAccessRequest struct {
	GithubTeamsRequest
	Allow bool `json:"allow"`
}

type GithubInviteRequest struct {
	Username string `json:"username" validate:"required,max=39"`
}

type GithubBatchResponse struct {
	Report  provisioning.Report   `json:"report"`
	Results []provisioning.Result `json:"results,omitempty"`
}
