package dto

// ── 选课关系模块 DTO ──

// CreateEnrollmentRequest 创建选课关系请求。
// 任课教师不由调用方指定，选课时从科目上复制快照
type CreateEnrollmentRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	SubjectID string `json:"subject_id" binding:"required,uuid"`
}

// ListEnrollmentRequest 查询选课关系请求
type ListEnrollmentRequest struct {
	PaginationRequest
	StudentID string `form:"student_id" binding:"omitempty,uuid"`
	SubjectID string `form:"subject_id" binding:"omitempty,uuid"`
	TeacherID string `form:"teacher_id" binding:"omitempty,uuid"`
}

// EnrollmentResponse 选课关系响应
type EnrollmentResponse struct {
	ID          string `json:"id"`
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name,omitempty"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name,omitempty"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}
