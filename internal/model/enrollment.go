package model

import "time"

// Enrollment 选课表 — 对应 enrollments
// (student_id, subject_id) 唯一；teacher_id 是选课时从科目上复制的任课教师快照，
// 不单独修改。只增不改，仅管理员可删除
type Enrollment struct {
	EnrollmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"enrollment_id"`
	StudentID    string    `gorm:"type:uuid;not null"                             json:"student_id"`
	SubjectID    string    `gorm:"type:uuid;not null"                             json:"subject_id"`
	TeacherID    string    `gorm:"type:uuid;not null"                             json:"teacher_id"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	CreatedBy    *string   `gorm:"type:uuid"                                      json:"created_by,omitempty"`

	// 关联
	Student *User    `gorm:"foreignKey:StudentID;references:UserID"    json:"student,omitempty"`
	Subject *Subject `gorm:"foreignKey:SubjectID;references:SubjectID" json:"subject,omitempty"`
	Teacher *User    `gorm:"foreignKey:TeacherID;references:UserID"    json:"teacher,omitempty"`
}

// TableName 指定表名
func (Enrollment) TableName() string { return "enrollments" }
