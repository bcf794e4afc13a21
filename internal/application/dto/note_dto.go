package dto

// SubmitNoteRequest 发布 Note 请求 DTO
type SubmitNoteRequest struct {
	Inbox     string `json:"inbox" validate:"required,httpurl"`
	InReplyTo string `json:"in_reply_to,omitempty" validate:"omitempty,httpurl"`
	Content   string `json:"content" validate:"required,max=65536"`
}

// SubmitNoteResponse 发布 Note 响应 DTO
type SubmitNoteResponse struct {
	ActivityID   string `json:"activity_id"`
	Inbox        string `json:"inbox"`
	RemoteStatus int    `json:"remote_status"`
}
