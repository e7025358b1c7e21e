package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// SubjectRepository 科目数据访问接口（参照数据，只读）
type SubjectRepository interface {
	GetByID(ctx context.Context, id string) (*model.Subject, error)
	// ListBySection 返回指定班级的全部科目（含任课教师）
	ListBySection(ctx context.Context, sectionID string) ([]model.Subject, error)
}

// subjectRepo SubjectRepository 的 GORM 实现
type subjectRepo struct {
	db *gorm.DB
}

// NewSubjectRepo 创建 SubjectRepository 实例
func NewSubjectRepo(db *gorm.DB) SubjectRepository {
	return &subjectRepo{db: db}
}

func (r *subjectRepo) GetByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Preload("Section").
		Where("subject_id = ?", id).
		First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *subjectRepo) ListBySection(ctx context.Context, sectionID string) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Preload("Teacher").
		Where("section_id = ?", sectionID).
		Order("code ASC").
		Find(&subjects).Error
	return subjects, err
}
