package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
)

// ── 测试辅助 ──

func setupTestPeriodService() (PeriodService, *mockPeriodRepo, *mockEvaluationRepo) {
	periodRepo := newMockPeriodRepo()
	evalRepo := newMockEvaluationRepo()
	repo := &repository.Repository{
		User:       newMockUserRepo(),
		Subject:    newMockSubjectRepo(),
		Period:     periodRepo,
		Enrollment: newMockEnrollmentRepo(),
		Question:   newMockQuestionRepo(),
		Evaluation: evalRepo,
		Activity:   newMockActivityRepo(),
	}
	svc := NewPeriodService(repo, zap.NewNop())
	return svc, periodRepo, evalRepo
}

func seedPeriod(periodRepo *mockPeriodRepo, id, name string, start, end time.Time, isActive, isCurrent bool) *model.EvaluationPeriod {
	p := &model.EvaluationPeriod{
		PeriodID:     id,
		Name:         name,
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    start,
		EndDate:      end,
		IsActive:     isActive,
		IsCurrent:    isCurrent,
	}
	periodRepo.periods[id] = p
	return p
}

// ── Create 测试 ──

func TestPeriodService_Create_Success(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	req := &dto.CreatePeriodRequest{
		Name:         "2026-2027学年第一学期评教",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-30",
	}

	result, err := svc.Create(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.Name != "2026-2027学年第一学期评教" {
		t.Errorf("期望Name=2026-2027学年第一学期评教，实际=%s", result.Name)
	}
	if !result.IsActive {
		t.Error("未显式指定时新周期应默认开启")
	}
	if result.IsCurrent {
		t.Error("新创建周期不应默认为当前周期")
	}
}

func TestPeriodService_Create_InactiveExplicit(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	inactive := false
	req := &dto.CreatePeriodRequest{
		Name:         "草稿周期",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-01",
		EndDate:      "2026-09-30",
		IsActive:     &inactive,
	}

	result, err := svc.Create(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if result.IsActive {
		t.Error("显式指定 is_active=false 时周期不应开启")
	}
}

func TestPeriodService_Create_OverlapRejected(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "已开启周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)

	// 新周期与 p-1 区间重叠且默认开启
	req := &dto.CreatePeriodRequest{
		Name:         "重叠周期",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-15",
		EndDate:      "2026-10-15",
	}

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrPeriodOverlap) {
		t.Errorf("期望 ErrPeriodOverlap，实际: %v", err)
	}
}

func TestPeriodService_Create_InactiveOverlapAllowed(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "已开启周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)

	// 关闭状态的周期允许与开启周期重叠（开启时再校验）
	inactive := false
	req := &dto.CreatePeriodRequest{
		Name:         "重叠草稿",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-15",
		EndDate:      "2026-10-15",
		IsActive:     &inactive,
	}

	if _, err := svc.Create(context.Background(), req, "admin-001"); err != nil {
		t.Fatalf("关闭状态的重叠周期应允许创建: %v", err)
	}
}

func TestPeriodService_Create_SingleDayAllowed(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	// 单日周期（start == end）合法
	req := &dto.CreatePeriodRequest{
		Name:         "单日评教",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-15",
		EndDate:      "2026-09-15",
	}

	result, err := svc.Create(context.Background(), req, "admin-001")
	if err != nil {
		t.Fatalf("单日周期应允许创建: %v", err)
	}
	if result.StartDate != result.EndDate {
		t.Errorf("期望起止同日，实际 %s ~ %s", result.StartDate, result.EndDate)
	}
}

func TestPeriodService_Create_InvalidDate(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	req := &dto.CreatePeriodRequest{
		Name:         "测试周期",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "2026-09-30",
		EndDate:      "2026-09-01", // 结束早于开始
	}

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrPeriodDateInvalid) {
		t.Errorf("期望 ErrPeriodDateInvalid，实际: %v", err)
	}
}

func TestPeriodService_Create_BadDateFormat(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	req := &dto.CreatePeriodRequest{
		Name:         "测试周期",
		AcademicYear: "2026-2027",
		Semester:     "1",
		StartDate:    "not-a-date",
		EndDate:      "2026-09-30",
	}

	_, err := svc.Create(context.Background(), req, "admin-001")
	if !errors.Is(err, ErrPeriodDateInvalid) {
		t.Errorf("期望 ErrPeriodDateInvalid，实际: %v", err)
	}
}

// ── GetByID / GetCurrent 测试 ──

func TestPeriodService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	_, err := svc.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

func TestPeriodService_GetCurrent_Success(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "当前周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, true)

	result, err := svc.GetCurrent(context.Background())
	if err != nil {
		t.Fatalf("GetCurrent 应成功: %v", err)
	}
	if result.ID != "p-1" {
		t.Errorf("期望ID=p-1，实际=%s", result.ID)
	}
}

func TestPeriodService_GetCurrent_NotFound(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	// 存在周期但没有 is_current
	seedPeriod(periodRepo, "p-1", "普通周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)

	_, err := svc.GetCurrent(context.Background())
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

// ── SetCurrent 测试 ──

func TestPeriodService_SetCurrent_ClearsPrevious(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-old", "旧周期",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), true, true)
	seedPeriod(periodRepo, "p-new", "新周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), false, false)

	err := svc.SetCurrent(context.Background(), "p-new", "admin-001")
	if err != nil {
		t.Fatalf("SetCurrent 应成功: %v", err)
	}

	if periodRepo.periods["p-old"].IsCurrent {
		t.Error("旧周期的当前标记应被清除")
	}
	if !periodRepo.periods["p-new"].IsCurrent {
		t.Error("新周期应成为当前周期")
	}
	if !periodRepo.periods["p-new"].IsActive {
		t.Error("设为当前周期时应同时开启")
	}
}

func TestPeriodService_SetCurrent_ConcurrentConflict(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), false, false)

	// 并发双切换被部分唯一索引拦下
	periodRepo.updateErr = &pgconn.PgError{Code: "23505", ConstraintName: "uq_periods_single_current"}

	err := svc.SetCurrent(context.Background(), "p-1", "admin-001")
	if !errors.Is(err, ErrPeriodCurrentConflict) {
		t.Errorf("期望 ErrPeriodCurrentConflict，实际: %v", err)
	}
}

func TestPeriodService_SetCurrent_NotFound(t *testing.T) {
	svc, _, _ := setupTestPeriodService()

	err := svc.SetCurrent(context.Background(), "nonexistent", "admin-001")
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("期望 ErrPeriodNotFound，实际: %v", err)
	}
}

// ── ToggleActive 测试 ──

func TestPeriodService_ToggleActive_OverlapRejected(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "已开启周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)
	// 与 p-1 区间端点相接（9/30 重叠一天）
	seedPeriod(periodRepo, "p-2", "待开启周期",
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), false, false)

	_, err := svc.ToggleActive(context.Background(), "p-2", true, "admin-001")
	if !errors.Is(err, ErrPeriodOverlap) {
		t.Errorf("期望 ErrPeriodOverlap，实际: %v", err)
	}
}

func TestPeriodService_ToggleActive_NoOverlap(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "已开启周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)
	seedPeriod(periodRepo, "p-2", "待开启周期",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), false, false)

	result, err := svc.ToggleActive(context.Background(), "p-2", true, "admin-001")
	if err != nil {
		t.Fatalf("不重叠周期应允许开启: %v", err)
	}
	if !result.IsActive {
		t.Error("周期应已开启")
	}
}

func TestPeriodService_ToggleActive_DisableClearsCurrent(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "当前周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, true)

	result, err := svc.ToggleActive(context.Background(), "p-1", false, "admin-001")
	if err != nil {
		t.Fatalf("ToggleActive 应成功: %v", err)
	}
	if result.IsActive {
		t.Error("周期应已关闭")
	}
	if result.IsCurrent {
		t.Error("关闭当前周期时应同时摘除当前标记")
	}
}

// ── Update 测试 ──

func TestPeriodService_Update_ActiveOverlapRejected(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "周期A",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, false)
	seedPeriod(periodRepo, "p-2", "周期B",
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), true, false)

	// 把 p-2 的开始日期改进 p-1 的区间
	newStart := "2026-09-15"
	req := &dto.UpdatePeriodRequest{StartDate: &newStart}

	_, err := svc.Update(context.Background(), "p-2", req, "admin-001")
	if !errors.Is(err, ErrPeriodOverlap) {
		t.Errorf("期望 ErrPeriodOverlap，实际: %v", err)
	}
}

func TestPeriodService_Update_Success(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "旧名称",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), false, false)

	newName := "新名称"
	req := &dto.UpdatePeriodRequest{Name: &newName}

	result, err := svc.Update(context.Background(), "p-1", req, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if result.Name != "新名称" {
		t.Errorf("期望Name=新名称，实际=%s", result.Name)
	}
}

// ── Delete 测试 ──

func TestPeriodService_Delete_CurrentRejected(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "当前周期",
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC), true, true)

	err := svc.Delete(context.Background(), "p-1", "admin-001")
	if !errors.Is(err, ErrPeriodIsCurrent) {
		t.Errorf("期望 ErrPeriodIsCurrent，实际: %v", err)
	}
}

func TestPeriodService_Delete_WithEvaluationsRejected(t *testing.T) {
	svc, periodRepo, evalRepo := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "历史周期",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), false, false)
	evalRepo.evals = append(evalRepo.evals, model.Evaluation{
		EvaluationID: "eval-1",
		PeriodID:     "p-1",
		StudentID:    "stu-1",
		TeacherID:    "tch-1",
		SubjectID:    "sub-1",
	})

	err := svc.Delete(context.Background(), "p-1", "admin-001")
	if !errors.Is(err, ErrPeriodHasEvaluations) {
		t.Errorf("期望 ErrPeriodHasEvaluations，实际: %v", err)
	}
}

func TestPeriodService_Delete_Success(t *testing.T) {
	svc, periodRepo, _ := setupTestPeriodService()
	seedPeriod(periodRepo, "p-1", "空周期",
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), false, false)

	if err := svc.Delete(context.Background(), "p-1", "admin-001"); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if _, ok := periodRepo.periods["p-1"]; ok {
		t.Error("周期应已被删除")
	}
}
