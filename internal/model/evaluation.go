package model

import "time"

// 评分取值范围。
// 历史表单曾按 0-4 校验，与表结构的 1-5 不一致；现统一为 1-5（与 CHECK 约束一致）
const (
	ScoreMin = 1
	ScoreMax = 5
)

// Evaluation 评教记录表 — 对应 evaluations
// (student_id, teacher_id, subject_id, period_id) 唯一：
// 同一评教期内一名学生对同一科目的同一教师至多评教一次
type Evaluation struct {
	EvaluationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"evaluation_id"`
	PeriodID     string    `gorm:"type:uuid;not null"                             json:"period_id"`
	SubjectID    string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID    string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	IsAnonymous  bool      `gorm:"not null;default:false"                         json:"is_anonymous"`
	Comment      *string   `gorm:"type:text"                                      json:"comment,omitempty"`
	SubmittedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Period  *EvaluationPeriod `gorm:"foreignKey:PeriodID;references:PeriodID"   json:"period,omitempty"`
	Subject *Subject          `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *User             `gorm:"foreignKey:TeacherID;references:UserID"    json:"teacher,omitempty"`
	Student *User             `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Scores  []Score           `gorm:"foreignKey:EvaluationID;references:EvaluationID" json:"scores,omitempty"`
}

// TableName 指定表名
func (Evaluation) TableName() string { return "evaluations" }

// AverageScore 本条评教的总平均分（无评分时为 0）
func (e *Evaluation) AverageScore() float64 {
	if len(e.Scores) == 0 {
		return 0
	}
	var sum int
	for _, s := range e.Scores {
		sum += s.Value
	}
	return float64(sum) / float64(len(e.Scores))
}

// Score 单题评分表 — 对应 scores
// 从属于 Evaluation，随评教记录一起写入/删除
type Score struct {
	ScoreID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"score_id"`
	EvaluationID string `gorm:"type:uuid;not null"                             json:"evaluation_id"`
	QuestionID   string `gorm:"type:uuid;not null"                             json:"question_id"`
	Value        int    `gorm:"type:smallint;not null"                         json:"value"` // 1-5

	Question *Question `gorm:"foreignKey:QuestionID;references:QuestionID" json:"question,omitempty"`
}

// TableName 指定表名
func (Score) TableName() string { return "scores" }
