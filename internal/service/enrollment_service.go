package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	pkgerrors "github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/errors"
)

// ── 选课关系模块业务错误 ──

var (
	ErrEnrollmentNotFound  = errors.New("选课关系不存在")
	ErrEnrollmentExists    = errors.New("该学生已选该科目")
	ErrSubjectNotFound     = errors.New("科目不存在")
	ErrSubjectNoTeacher    = errors.New("该科目尚未指派任课教师")
	ErrEnrollNotStudent    = errors.New("只能为学生创建选课关系")
	ErrEnrollLevelMismatch = errors.New("科目学段与学生班级学段不一致")
)

// EnrollmentService 选课关系业务接口
type EnrollmentService interface {
	// Enroll 为学生创建选课关系，任课教师从科目上复制快照
	Enroll(ctx context.Context, req *dto.CreateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error)
	// AutoEnroll 学生转入新班级后，批量补选该班级所有已指派教师的科目。
	// 已有的选课关系保持不变，单科失败跳过不阻断
	AutoEnroll(ctx context.Context, student *model.User, callerID string) (int, error)
	// AutoEnrollStudent 按学生 ID 触发一次自动补选，供管理端手动调用
	AutoEnrollStudent(ctx context.Context, studentID string, callerID string) (int, error)
	List(ctx context.Context, req *dto.ListEnrollmentRequest) (*dto.PagedResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

// ────────────────────── Enroll ──────────────────────

func (s *enrollmentService) Enroll(ctx context.Context, req *dto.CreateEnrollmentRequest, callerID string) (*dto.EnrollmentResponse, error) {
	student, err := s.repo.User.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", req.StudentID), zap.Error(err))
		return nil, err
	}
	if !student.IsStudent() {
		return nil, ErrEnrollNotStudent
	}

	subject, err := s.repo.Subject.GetByID(ctx, req.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", req.SubjectID), zap.Error(err))
		return nil, err
	}
	if subject.TeacherID == nil {
		return nil, ErrSubjectNoTeacher
	}
	if student.Section != nil && student.Section.LevelID != subject.LevelID {
		return nil, ErrEnrollLevelMismatch
	}

	exists, err := s.repo.Enrollment.Exists(ctx, req.StudentID, req.SubjectID)
	if err != nil {
		s.logger.Error("校验选课关系失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrEnrollmentExists
	}

	enrollment := &model.Enrollment{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: *subject.TeacherID,
		CreatedBy: &callerID,
	}

	if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
		if pkgerrors.IsUniqueViolation(err, "uq_enrollments_student_subject") {
			return nil, ErrEnrollmentExists
		}
		s.logger.Error("创建选课关系失败", zap.Error(err))
		return nil, err
	}

	enrollment.Student = student
	enrollment.Subject = subject
	enrollment.Teacher = subject.Teacher
	return s.toEnrollmentResponse(enrollment), nil
}

// ────────────────────── AutoEnroll ──────────────────────

func (s *enrollmentService) AutoEnroll(ctx context.Context, student *model.User, callerID string) (int, error) {
	if student.SectionID == nil {
		return 0, nil
	}

	subjects, err := s.repo.Subject.ListBySection(ctx, *student.SectionID)
	if err != nil {
		s.logger.Error("查询班级科目失败", zap.String("section_id", *student.SectionID), zap.Error(err))
		return 0, err
	}

	enrolled := 0
	for i := range subjects {
		subject := &subjects[i]
		if subject.TeacherID == nil {
			continue
		}

		exists, err := s.repo.Enrollment.Exists(ctx, student.UserID, subject.SubjectID)
		if err != nil {
			s.logger.Warn("自动选课校验失败，跳过该科目",
				zap.String("subject_id", subject.SubjectID), zap.Error(err))
			continue
		}
		if exists {
			continue
		}

		enrollment := &model.Enrollment{
			StudentID: student.UserID,
			SubjectID: subject.SubjectID,
			TeacherID: *subject.TeacherID,
			CreatedBy: &callerID,
		}
		if err := s.repo.Enrollment.Create(ctx, enrollment); err != nil {
			if pkgerrors.IsUniqueViolation(err, "uq_enrollments_student_subject") {
				continue
			}
			s.logger.Warn("自动选课写入失败，跳过该科目",
				zap.String("subject_id", subject.SubjectID), zap.Error(err))
			continue
		}
		enrolled++
	}

	if enrolled > 0 {
		s.logger.Info("自动选课完成",
			zap.String("student_id", student.UserID),
			zap.String("section_id", *student.SectionID),
			zap.Int("enrolled", enrolled))
	}
	return enrolled, nil
}

// ────────────────────── AutoEnrollStudent ──────────────────────

func (s *enrollmentService) AutoEnrollStudent(ctx context.Context, studentID string, callerID string) (int, error) {
	student, err := s.repo.User.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", studentID), zap.Error(err))
		return 0, err
	}
	if !student.IsStudent() {
		return 0, ErrEnrollNotStudent
	}
	return s.AutoEnroll(ctx, student, callerID)
}

// ────────────────────── List ──────────────────────

func (s *enrollmentService) List(ctx context.Context, req *dto.ListEnrollmentRequest) (*dto.PagedResponse, error) {
	filter := repository.EnrollmentFilter{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Offset:    req.GetOffset(),
		Limit:     req.GetPageSize(),
	}

	enrollments, total, err := s.repo.Enrollment.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出选课关系失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for i := range enrollments {
		items = append(items, *s.toEnrollmentResponse(&enrollments[i]))
	}

	return &dto.PagedResponse{
		Items:    items,
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

// ────────────────────── Delete ──────────────────────

func (s *enrollmentService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Enrollment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEnrollmentNotFound
		}
		s.logger.Error("查询选课关系失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Enrollment.Delete(ctx, id); err != nil {
		s.logger.Error("删除选课关系失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("选课关系已删除",
		zap.String("enrollment_id", id),
		zap.String("operator", callerID))
	return nil
}

// ── 内部辅助方法 ──

func (s *enrollmentService) toEnrollmentResponse(e *model.Enrollment) *dto.EnrollmentResponse {
	resp := &dto.EnrollmentResponse{
		ID:        e.EnrollmentID,
		StudentID: e.StudentID,
		SubjectID: e.SubjectID,
		TeacherID: e.TeacherID,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.Student != nil {
		resp.StudentName = e.Student.Name
	}
	if e.Subject != nil {
		resp.SubjectName = e.Subject.Name
	}
	if e.Teacher != nil {
		resp.TeacherName = e.Teacher.Name
	}
	return resp
}
