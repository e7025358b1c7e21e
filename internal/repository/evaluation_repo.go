package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// EvaluationPair 学生在某周期内已评价的 (教师, 科目) 组合
type EvaluationPair struct {
	TeacherID string `gorm:"column:teacher_id"`
	SubjectID string `gorm:"column:subject_id"`
}

// EvaluationRepository 评价提交数据访问接口
type EvaluationRepository interface {
	// Create 在一次插入中写入评价及其全部分数（Scores 关联随主记录写入）
	Create(ctx context.Context, eval *model.Evaluation) error
	GetByID(ctx context.Context, id string) (*model.Evaluation, error)
	// Exists 判断四元组 (学生, 教师, 科目, 周期) 是否已有评价
	Exists(ctx context.Context, studentID, teacherID, subjectID, periodID string) (bool, error)
	// ListPairsByStudentPeriod 返回学生在周期内已评过的 (教师, 科目) 组合
	ListPairsByStudentPeriod(ctx context.Context, studentID, periodID string) ([]EvaluationPair, error)
	// ListByPeriod 返回周期内全部评价（含分数），供聚合统计使用
	ListByPeriod(ctx context.Context, periodID string) ([]model.Evaluation, error)
	ListByTeacherPeriod(ctx context.Context, teacherID, periodID string) ([]model.Evaluation, error)
	CountByPeriod(ctx context.Context, periodID string) (int64, error)
	// Delete 删除评价，分数行由外键级联清除
	Delete(ctx context.Context, id string) error
}

// evaluationRepo EvaluationRepository 的 GORM 实现
type evaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo 创建 EvaluationRepository 实例
func NewEvaluationRepo(db *gorm.DB) EvaluationRepository {
	return &evaluationRepo{db: db}
}

func (r *evaluationRepo) Create(ctx context.Context, eval *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

func (r *evaluationRepo) GetByID(ctx context.Context, id string) (*model.Evaluation, error) {
	var eval model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Preload("Teacher").
		Preload("Subject").
		Where("evaluation_id = ?", id).
		First(&eval).Error
	if err != nil {
		return nil, err
	}
	return &eval, nil
}

func (r *evaluationRepo) Exists(ctx context.Context, studentID, teacherID, subjectID, periodID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("student_id = ? AND teacher_id = ? AND subject_id = ? AND period_id = ?",
			studentID, teacherID, subjectID, periodID).
		Count(&count).Error
	return count > 0, err
}

func (r *evaluationRepo) ListPairsByStudentPeriod(ctx context.Context, studentID, periodID string) ([]EvaluationPair, error) {
	var pairs []EvaluationPair
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Select("teacher_id, subject_id").
		Where("student_id = ? AND period_id = ?", studentID, periodID).
		Scan(&pairs).Error
	return pairs, err
}

func (r *evaluationRepo) ListByPeriod(ctx context.Context, periodID string) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("period_id = ?", periodID).
		Order("submitted_at ASC").
		Find(&evals).Error
	return evals, err
}

func (r *evaluationRepo) ListByTeacherPeriod(ctx context.Context, teacherID, periodID string) ([]model.Evaluation, error) {
	var evals []model.Evaluation
	err := r.db.WithContext(ctx).
		Preload("Scores").
		Where("teacher_id = ? AND period_id = ?", teacherID, periodID).
		Order("submitted_at ASC").
		Find(&evals).Error
	return evals, err
}

func (r *evaluationRepo) CountByPeriod(ctx context.Context, periodID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("period_id = ?", periodID).
		Count(&count).Error
	return count, err
}

func (r *evaluationRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("evaluation_id = ?", id).
		Delete(&model.Evaluation{}).Error
}
