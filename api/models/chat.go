package models

type ChatMessageRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type UnreadResponse struct {
	Rooms map[string]int64 `json:"rooms"`
	Total int64            `json:"total"`
}
