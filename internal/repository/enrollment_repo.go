package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
)

// EnrollmentFilter 选课列表查询条件
type EnrollmentFilter struct {
	StudentID string
	SubjectID string
	TeacherID string
	Offset    int
	Limit     int
}

// EnrollmentRepository 选课数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id string) (*model.Enrollment, error)
	// Exists 判断 (student, subject) 是否已有选课记录
	Exists(ctx context.Context, studentID, subjectID string) (bool, error)
	// ExistsTriple 判断 (student, teacher, subject) 三元组是否存在
	ExistsTriple(ctx context.Context, studentID, teacherID, subjectID string) (bool, error)
	// ListByStudentActiveTeacher 返回学生的全部选课，但排除任课教师已停用的记录
	ListByStudentActiveTeacher(ctx context.Context, studentID string) ([]model.Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter) ([]model.Enrollment, int64, error)
	Delete(ctx context.Context, id string) error
}

// enrollmentRepo EnrollmentRepository 的 GORM 实现
type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByID(ctx context.Context, id string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Where("enrollment_id = ?", id).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) Exists(ctx context.Context, studentID, subjectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND subject_id = ?", studentID, subjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) ExistsTriple(ctx context.Context, studentID, teacherID, subjectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("student_id = ? AND teacher_id = ? AND subject_id = ?", studentID, teacherID, subjectID).
		Count(&count).Error
	return count > 0, err
}

func (r *enrollmentRepo) ListByStudentActiveTeacher(ctx context.Context, studentID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Teacher").
		Joins("JOIN users t ON t.user_id = enrollments.teacher_id AND t.is_active = ? AND t.deleted_at IS NULL", true).
		Where("enrollments.student_id = ?", studentID).
		Order("enrollments.created_at ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) List(ctx context.Context, filter EnrollmentFilter) ([]model.Enrollment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Enrollment{})
	if filter.StudentID != "" {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.SubjectID != "" {
		q = q.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.TeacherID != "" {
		q = q.Where("teacher_id = ?", filter.TeacherID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []model.Enrollment
	err := q.
		Preload("Student").
		Preload("Subject").
		Preload("Teacher").
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *enrollmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("enrollment_id = ?", id).
		Delete(&model.Enrollment{}).Error
}
