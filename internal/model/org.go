package model

// 组织参照数据：学段 / 班级 / 科目。
// 由管理后台的通用 CRUD 维护，本服务只读，仅作为选课与评教的外键目标。

// Level 学段表 — 对应 levels（如初中部、高中部、大学部）
type Level struct {
	LevelID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"level_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	SortOrder int    `gorm:"not null;default:0"                             json:"sort_order"`
}

// TableName 指定表名
func (Level) TableName() string { return "levels" }

// Section 班级表 — 对应 sections
type Section struct {
	SectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	LevelID   string `gorm:"type:uuid;not null"                             json:"level_id"`

	Level *Level `gorm:"foreignKey:LevelID;references:LevelID" json:"level,omitempty"`
}

// TableName 指定表名
func (Section) TableName() string { return "sections" }

// Subject 科目表 — 对应 subjects
// 一个科目隶属于一个学段+班级，并指派一名任课教师；
// 未指派教师（TeacherID 为空）的科目不参与自动选课
type Subject struct {
	SubjectID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subject_id"`
	Name      string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Code      string  `gorm:"type:varchar(20);not null"                      json:"code"`
	LevelID   string  `gorm:"type:uuid;not null"                             json:"level_id"`
	SectionID string  `gorm:"type:uuid;not null"                             json:"section_id"`
	TeacherID *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`

	Level   *Level   `gorm:"foreignKey:LevelID;references:LevelID"       json:"level,omitempty"`
	Section *Section `gorm:"foreignKey:SectionID;references:SectionID"   json:"section,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID;references:UserID"      json:"teacher,omitempty"`
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }
