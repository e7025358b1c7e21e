package dto

// ── 评教周期模块 DTO ──

// CreatePeriodRequest 创建评教周期请求
type CreatePeriodRequest struct {
	Name         string  `json:"name"          binding:"required,min=2,max=100"`
	AcademicYear string  `json:"academic_year" binding:"required,max=20"` // "2025-2026"
	Semester     string  `json:"semester"      binding:"required,oneof=1 2 summer"`
	StartDate    string  `json:"start_date"    binding:"required"` // "2026-09-01"
	EndDate      string  `json:"end_date"      binding:"required"` // "2026-09-30"
	IsActive     *bool   `json:"is_active"` // 缺省为开启
	Description  *string `json:"description"   binding:"omitempty,max=2000"`
}

// UpdatePeriodRequest 更新评教周期请求
type UpdatePeriodRequest struct {
	Name         *string `json:"name"          binding:"omitempty,min=2,max=100"`
	AcademicYear *string `json:"academic_year" binding:"omitempty,max=20"`
	Semester     *string `json:"semester"      binding:"omitempty,oneof=1 2 summer"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Description  *string `json:"description"   binding:"omitempty,max=2000"`
}

// TogglePeriodRequest 启停评教周期请求
type TogglePeriodRequest struct {
	IsActive bool `json:"is_active"`
}

// PeriodResponse 评教周期响应
type PeriodResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AcademicYear string `json:"academic_year"`
	Semester     string `json:"semester"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsActive     bool   `json:"is_active"`
	IsCurrent    bool   `json:"is_current"`
	Status       string `json:"status"` // upcoming / active / completed
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}
