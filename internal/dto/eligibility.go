package dto

// ── 可评对象模块 DTO ──

// EligibleTeacherItem 学生本周期仍可评的一个 (教师, 科目) 组合
type EligibleTeacherItem struct {
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	SubjectCode string `json:"subject_code"`
}

// EligibilityResponse 可评对象列表响应
type EligibilityResponse struct {
	PeriodID   string                `json:"period_id,omitempty"`
	PeriodName string                `json:"period_name,omitempty"`
	PeriodOpen bool                  `json:"period_open"` // false 表示当前无开放周期
	Teachers   []EligibleTeacherItem `json:"teachers"`
}
