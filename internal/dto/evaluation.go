package dto

// ── 评价提交模块 DTO ──

// ScoreItem 单题评分
type ScoreItem struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
	Value      int    `json:"value"       binding:"required,min=1,max=5"`
}

// SubmitEvaluationRequest 提交评价请求
type SubmitEvaluationRequest struct {
	TeacherID   string      `json:"teacher_id"   binding:"required,uuid"`
	SubjectID   string      `json:"subject_id"   binding:"required,uuid"`
	Scores      []ScoreItem `json:"scores"       binding:"required,min=1,dive"`
	Comment     string      `json:"comment"      binding:"max=2000"`
	IsAnonymous bool        `json:"is_anonymous"`
}

// ScoreResponse 单题评分响应
type ScoreResponse struct {
	QuestionID string `json:"question_id"`
	Value      int    `json:"value"`
}

// EvaluationResponse 评价详情响应
type EvaluationResponse struct {
	ID          string          `json:"id"`
	StudentID   string          `json:"student_id,omitempty"` // 匿名评价对非管理员隐藏
	TeacherID   string          `json:"teacher_id"`
	TeacherName string          `json:"teacher_name,omitempty"`
	SubjectID   string          `json:"subject_id"`
	SubjectName string          `json:"subject_name,omitempty"`
	PeriodID    string          `json:"period_id"`
	PeriodName  string          `json:"period_name,omitempty"`
	Scores      []ScoreResponse `json:"scores"`
	Average     float64         `json:"average"`
	// CriteriaAverages 本条评价在各维度下的平均分（详情接口回填）
	CriteriaAverages []CriteriaAverage `json:"criteria_averages,omitempty"`
	Comment     string          `json:"comment,omitempty"`
	IsAnonymous bool            `json:"is_anonymous"`
	SubmittedAt string          `json:"submitted_at"`
}
