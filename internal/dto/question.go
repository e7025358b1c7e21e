package dto

// ── 问卷目录模块 DTO ──

// QuestionItem 题目条目（整组替换时提交）
type QuestionItem struct {
	Text      string `json:"text"       binding:"required,min=2,max=500"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
}

// ReplaceQuestionsRequest 整组替换某维度题目的请求
type ReplaceQuestionsRequest struct {
	Questions []QuestionItem `json:"questions" binding:"required,dive"`
}

// QuestionResponse 题目响应
type QuestionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	SortOrder int    `json:"sort_order"`
}

// CriteriaResponse 评价维度响应（含题目）
type CriteriaResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	SortOrder int                `json:"sort_order"`
	Questions []QuestionResponse `json:"questions"`
}
