package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// QuestionRepository 评教问卷目录数据访问接口
type QuestionRepository interface {
	// ListCriteria 返回全部评价维度及其题目（按 sort_order 排序）
	ListCriteria(ctx context.Context) ([]model.Criteria, error)
	GetCriteriaByID(ctx context.Context, id string) (*model.Criteria, error)
	// GetQuestionsByIDs 按 ID 批量查询题目
	GetQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error)
	// ReplaceForCriteria 整组替换某维度的题目：旧题全删、新题全插。
	// 需在事务内调用（配合 Repository.WithTx）
	ReplaceForCriteria(ctx context.Context, criteriaID string, questions []model.Question) error
}

// questionRepo QuestionRepository 的 GORM 实现
type questionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo 创建 QuestionRepository 实例
func NewQuestionRepo(db *gorm.DB) QuestionRepository {
	return &questionRepo{db: db}
}

func (r *questionRepo) ListCriteria(ctx context.Context) ([]model.Criteria, error) {
	var criteria []model.Criteria
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Order("sort_order ASC").
		Find(&criteria).Error
	return criteria, err
}

func (r *questionRepo) GetCriteriaByID(ctx context.Context, id string) (*model.Criteria, error) {
	var c model.Criteria
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("criteria_id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *questionRepo) GetQuestionsByIDs(ctx context.Context, ids []string) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.db.WithContext(ctx).
		Where("question_id IN ?", ids).
		Find(&questions).Error
	return questions, err
}

func (r *questionRepo) ReplaceForCriteria(ctx context.Context, criteriaID string, questions []model.Question) error {
	if err := r.db.WithContext(ctx).
		Where("criteria_id = ?", criteriaID).
		Delete(&model.Question{}).Error; err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&questions).Error
}
