package model

import "time"

// 评教期派生状态
const (
	PeriodStatusUpcoming  = "upcoming"
	PeriodStatusActive    = "active"
	PeriodStatusCompleted = "completed"
)

// EvaluationPeriod 评教期表 — 对应 evaluation_periods
// 全局至多一个 is_current=true（由 set-current 事务 + 部分唯一索引共同保证）；
// is_active=true 的评教期日期区间（含端点）互不重叠（排他约束兜底）
type EvaluationPeriod struct {
	PeriodID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"period_id"`
	Name         string    `gorm:"type:varchar(100);not null"                     json:"name"`
	AcademicYear string    `gorm:"type:varchar(20);not null"                      json:"academic_year"` // "2025-2026"
	Semester     string    `gorm:"type:varchar(20);not null"                      json:"semester"`      // "1" | "2" | "summer"
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	IsActive     bool      `gorm:"not null;default:true"                          json:"is_active"`
	IsCurrent    bool      `gorm:"not null;default:false"                         json:"is_current"`
	Description  *string   `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EvaluationPeriod) TableName() string { return "evaluation_periods" }

// Status 按今天日期派生状态：未开始 / 进行中 / 已结束
func (p *EvaluationPeriod) Status(today time.Time) string {
	d := dateOnly(today)
	switch {
	case d.Before(dateOnly(p.StartDate)):
		return PeriodStatusUpcoming
	case d.After(dateOnly(p.EndDate)):
		return PeriodStatusCompleted
	default:
		return PeriodStatusActive
	}
}

// IsValidForEvaluation 当前是否允许提交评教：
// 启用中且今天落在 [start_date, end_date]（含端点）。
// 与 is_current 相互独立：当前评教期过了结束日期后同样拒绝提交
func (p *EvaluationPeriod) IsValidForEvaluation(today time.Time) bool {
	if !p.IsActive {
		return false
	}
	d := dateOnly(today)
	return !d.Before(dateOnly(p.StartDate)) && !d.After(dateOnly(p.EndDate))
}

// dateOnly 截断到日期（忽略时分秒与时区差异带来的误判）
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
