package models

import "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"

type SettingsRequest struct {
	IsRegistrationOpen    bool `json:"isRegistrationOpen"`
	IsPaymentOpen         bool `json:"isPaymentOpen"`
	IsVideoSubmissionOpen bool `json:"isVideoSubmissionOpen"`
	IsProfileEditOpen     bool `json:"isProfileEditOpen"`
	IsResultOpen          bool `json:"isResultOpen"`
}

type SettingsResponse SettingsRequest

func TransformSettingsFromStorage(s *storage.AppSettings) SettingsResponse {
	return SettingsResponse{
		IsRegistrationOpen:    s.IsRegistrationOpen,
		IsPaymentOpen:         s.IsPaymentOpen,
		IsVideoSubmissionOpen: s.IsVideoSubmissionOpen,
		IsProfileEditOpen:     s.IsProfileEditOpen,
		IsResultOpen:          s.IsResultOpen,
	}
}

type ViewsResponse struct {
	Views  []string `json:"views"`
	Active string   `json:"active"`
}

type ActiveViewRequest struct {
	View string `json:"view" validate:"required"`
}
