package dto

// ── 活动日志模块 DTO ──

// ListActivityRequest 查询活动日志请求
type ListActivityRequest struct {
	PaginationRequest
	Username     string `form:"username"      binding:"omitempty,max=100"`
	ActivityType string `form:"activity_type" binding:"omitempty,oneof=login logout evaluation_started evaluation_completed"`
}

// ActivityLogResponse 活动日志响应
type ActivityLogResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id,omitempty"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	ActivityType    string `json:"activity_type"`
	SessionID       string `json:"session_id,omitempty"`
	IP              string `json:"ip,omitempty"`
	EvaluationID    string `json:"evaluation_id,omitempty"`
	TimeIn          string `json:"time_in"`
	TimeOut         string `json:"time_out,omitempty"`
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`
}
