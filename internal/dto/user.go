package dto

// ── 用户模块 DTO ──

// CreateUserRequest 管理员创建用户请求
type CreateUserRequest struct {
	Name      string  `json:"name"       binding:"required,min=2,max=100"`
	StudentNo string  `json:"student_no" binding:"omitempty,max=50"`
	Email     string  `json:"email"      binding:"required,email"`
	Password  string  `json:"password"   binding:"required,min=8,max=72"`
	Role      string  `json:"role"       binding:"required,oneof=student teacher admin"`
	SectionID *string `json:"section_id" binding:"omitempty,uuid"`
}

// UpdateUserRequest 管理员更新用户请求
type UpdateUserRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=100"`
	Email     *string `json:"email"      binding:"omitempty,email"`
	IsActive  *bool   `json:"is_active"`
	SectionID *string `json:"section_id" binding:"omitempty,uuid"`
}

// ListUserRequest 查询用户列表请求
type ListUserRequest struct {
	PaginationRequest
	Role string `form:"role" binding:"omitempty,oneof=student teacher admin"`
}
