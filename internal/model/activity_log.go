package model

import "time"

// 活动类型
const (
	ActivityLogin               = "login"
	ActivityLogout              = "logout"
	ActivityEvaluationStarted   = "evaluation_started"
	ActivityEvaluationCompleted = "evaluation_completed"
)

// ActivityLog 活动日志表 — 对应 activity_logs
// 登录行的 time_out/duration 由注销事件回填：优先按 session_id 精确配对，
// 缺省时退化为"同用户名最近一条未闭合的登录行"。
// 指向 users/evaluations 的外键不级联，删除业务数据前必须先清理日志行
type ActivityLog struct {
	ActivityLogID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_log_id"`
	UserID          *string    `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Username        string     `gorm:"type:varchar(100);not null"                     json:"username"`
	Role            string     `gorm:"type:varchar(20);not null;default:''"           json:"role"`
	ActivityType    string     `gorm:"type:varchar(30);not null"                      json:"activity_type"`
	SessionID       *string    `gorm:"type:uuid"                                      json:"session_id,omitempty"`
	IP              string     `gorm:"type:varchar(45);not null;default:''"           json:"ip"`
	UserAgent       string     `gorm:"type:varchar(500);not null;default:''"          json:"user_agent"`
	EvaluationID    *string    `gorm:"type:uuid"                                      json:"evaluation_id,omitempty"`
	TimeIn          time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"time_in"`
	TimeOut         *time.Time `json:"time_out,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}

// TableName 指定表名
func (ActivityLog) TableName() string { return "activity_logs" }
