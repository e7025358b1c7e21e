package model

// 用户角色
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User 用户表 — 对应 users
// 学生、教师、管理员共用一张表，以 role 区分；
// 教师被停用（is_active=false）后不再出现在学生的可评教名单中
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	StudentNo    string  `gorm:"type:varchar(20);not null"                      json:"student_no"` // 学号/工号
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	IsActive     bool    `gorm:"not null;default:true"                          json:"is_active"`
	SectionID    *string `gorm:"type:uuid"                                      json:"section_id,omitempty"` // 仅学生
	VersionedModel

	// 关联
	Section *Section `gorm:"foreignKey:SectionID;references:SectionID" json:"section,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsStudent 是否为学生
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsTeacher 是否为教师
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
