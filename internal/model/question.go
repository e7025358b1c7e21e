package model

// 评教问卷目录：维度（Criteria）与题目（Question）。
// 静态参照数据，由管理端维护；修改某维度的题集时整组替换（旧题全删、新题全插）

// Criteria 评价维度表 — 对应 criteria
type Criteria struct {
	CriteriaID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"criteria_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`

	Questions []Question `gorm:"foreignKey:CriteriaID;references:CriteriaID" json:"questions,omitempty"`
}

// TableName 指定表名
func (Criteria) TableName() string { return "criteria" }

// Question 评教题目表 — 对应 questions
type Question struct {
	QuestionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"question_id"`
	CriteriaID string `gorm:"type:uuid;not null"                             json:"criteria_id"`
	Text       string `gorm:"type:text;not null"                             json:"text"`
	SortOrder  int    `gorm:"not null;default:0"                             json:"sort_order"`

	Criteria *Criteria `gorm:"foreignKey:CriteriaID;references:CriteriaID" json:"criteria,omitempty"`
}

// TableName 指定表名
func (Question) TableName() string { return "questions" }
