package models

type AttendanceScanRequest struct {
	Code string `json:"code" validate:"required"`
}

type AttendanceScanResponse struct {
	Participant ParticipantResponse `json:"participant"`
	AlreadyIn   bool                `json:"alreadyIn"`
}

type AttendanceResetResponse struct {
	Reset int `json:"reset"`
}

type ArenaAllocationRequest struct {
	Arena string `json:"arena" validate:"required"`
}
