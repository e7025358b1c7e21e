package dto

// ── 统计报表模块 DTO ──

// CriteriaAverage 某评价维度的平均分
type CriteriaAverage struct {
	CriteriaID   string  `json:"criteria_id"`
	CriteriaName string  `json:"criteria_name"`
	Average      float64 `json:"average"`
}

// TeacherReportItem 单个教师在周期内的统计
type TeacherReportItem struct {
	TeacherID        string            `json:"teacher_id"`
	TeacherName      string            `json:"teacher_name"`
	EvaluationCount  int               `json:"evaluation_count"`
	OverallAverage   float64           `json:"overall_average"`
	CriteriaAverages []CriteriaAverage `json:"criteria_averages"`
}

// PeriodReportResponse 周期统计报表响应
type PeriodReportResponse struct {
	PeriodID        string              `json:"period_id"`
	PeriodName      string              `json:"period_name"`
	EvaluationCount int64               `json:"evaluation_count"`
	Teachers        []TeacherReportItem `json:"teachers"`
}

// TopRatedResponse 周期内评分最高教师响应
type TopRatedResponse struct {
	PeriodID string              `json:"period_id"`
	Limit    int                 `json:"limit"`
	Teachers []TeacherReportItem `json:"teachers"`
}

// TeacherSummaryResponse 教师视角的自身统计（不含学生身份信息）
type TeacherSummaryResponse struct {
	PeriodID         string            `json:"period_id"`
	TeacherID        string            `json:"teacher_id"`
	EvaluationCount  int               `json:"evaluation_count"`
	OverallAverage   float64           `json:"overall_average"`
	CriteriaAverages []CriteriaAverage `json:"criteria_averages"`
	Comments         []string          `json:"comments"`
}
