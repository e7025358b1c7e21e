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

// ── 评价提交模块业务错误 ──

var (
	ErrEvaluationNotFound  = errors.New("评价记录不存在")
	ErrPeriodNotOpen       = errors.New("当前不在评教开放窗口内")
	ErrNotEnrolled         = errors.New("该教师科目组合不在学生的选课名单中")
	ErrAlreadyEvaluated    = errors.New("本周期内已评价过该教师科目组合")
	ErrScoreOutOfRange     = errors.New("评分超出允许范围")
	ErrScoreDuplicate      = errors.New("同一题目重复评分")
	ErrQuestionInvalid     = errors.New("评分中包含无效题目")
	ErrEvaluationForbidden = errors.New("无权查看该评价记录")
)

// EvaluationService 评价提交业务接口
type EvaluationService interface {
	// Submit 学生提交评价。前置校验链：周期开放 → 选课关系 → 未重复评价，
	// 全部通过后在事务内写入评价与分数；数据库唯一约束兜底并发重复提交
	Submit(ctx context.Context, studentID string, req *dto.SubmitEvaluationRequest, ev ActivityEvent) (*dto.EvaluationResponse, error)
	// GetByID 查看评价详情；匿名评价对非管理员隐藏学生身份
	GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.EvaluationResponse, error)
	ListByPeriod(ctx context.Context, periodID string) ([]dto.EvaluationResponse, error)
	// Delete 管理员撤销评价：先清审计行再删主记录，分数由外键级联清除
	Delete(ctx context.Context, id string, callerID string) error
}

type evaluationService struct {
	repo     *repository.Repository
	activity ActivityService
	logger   *zap.Logger
}

// NewEvaluationService 创建 EvaluationService 实例
func NewEvaluationService(repo *repository.Repository, activity ActivityService, logger *zap.Logger) EvaluationService {
	return &evaluationService{repo: repo, activity: activity, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *evaluationService) Submit(ctx context.Context, studentID string, req *dto.SubmitEvaluationRequest, ev ActivityEvent) (*dto.EvaluationResponse, error) {
	// 1. 周期必须开放
	period, err := s.repo.Period.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotOpen
		}
		s.logger.Error("查询当前评教周期失败", zap.Error(err))
		return nil, err
	}
	if !period.IsValidForEvaluation(time.Now()) {
		return nil, ErrPeriodNotOpen
	}

	// 进入答卷即落一条审计行，便于还原"开始填但未提交"的轨迹
	s.activity.RecordEvaluationEvent(ctx, ev, model.ActivityEvaluationStarted, nil)

	// 2. (学生, 教师, 科目) 必须在选课名单中
	enrolled, err := s.repo.Enrollment.ExistsTriple(ctx, studentID, req.TeacherID, req.SubjectID)
	if err != nil {
		s.logger.Error("校验选课关系失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	// 3. 本周期内不得重复评价
	exists, err := s.repo.Evaluation.Exists(ctx, studentID, req.TeacherID, req.SubjectID, period.PeriodID)
	if err != nil {
		s.logger.Error("校验重复评价失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyEvaluated
	}

	// 4. 评分本身合法：取值范围、无重复题目、题目真实存在
	scores, err := s.validateScores(ctx, req.Scores)
	if err != nil {
		return nil, err
	}

	eval := &model.Evaluation{
		PeriodID:    period.PeriodID,
		SubjectID:   req.SubjectID,
		TeacherID:   req.TeacherID,
		StudentID:   studentID,
		IsAnonymous: req.IsAnonymous,
		SubmittedAt: time.Now(),
		Scores:      scores,
	}
	if req.Comment != "" {
		comment := req.Comment
		eval.Comment = &comment
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Evaluation.Create(ctx, eval); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		// 并发双提交时应用层检查可能双双通过，由唯一约束收口
		if pkgerrors.IsUniqueViolation(err, "uq_evaluations_once") {
			return nil, ErrAlreadyEvaluated
		}
		s.logger.Error("写入评价失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.activity.RecordEvaluationEvent(ctx, ev, model.ActivityEvaluationCompleted, &eval.EvaluationID)

	s.logger.Info("评价已提交",
		zap.String("evaluation_id", eval.EvaluationID),
		zap.String("period_id", period.PeriodID),
		zap.String("teacher_id", req.TeacherID),
		zap.String("subject_id", req.SubjectID))

	// 提交响应带上周期名称，前端无需再查周期
	eval.Period = period
	return s.toEvaluationResponse(eval, false), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *evaluationService) GetByID(ctx context.Context, id string, callerID, callerRole string) (*dto.EvaluationResponse, error) {
	eval, err := s.repo.Evaluation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		s.logger.Error("查询评价失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	var resp *dto.EvaluationResponse
	switch callerRole {
	case model.RoleAdmin:
		// 管理员可见完整信息，匿名评价也不例外（审计需要）
		resp = s.toEvaluationResponse(eval, false)
		resp.StudentID = eval.StudentID
	case model.RoleTeacher:
		if eval.TeacherID != callerID {
			return nil, ErrEvaluationForbidden
		}
		// 教师视角一律隐藏学生身份，匿名与否都不透出
		resp = s.toEvaluationResponse(eval, true)
	default:
		if eval.StudentID != callerID {
			return nil, ErrEvaluationForbidden
		}
		resp = s.toEvaluationResponse(eval, false)
	}

	// 详情接口回填各维度平均分
	averages, err := s.criteriaAverages(ctx, eval)
	if err != nil {
		return nil, err
	}
	resp.CriteriaAverages = averages
	return resp, nil
}

// ────────────────────── ListByPeriod ──────────────────────

func (s *evaluationService) ListByPeriod(ctx context.Context, periodID string) ([]dto.EvaluationResponse, error) {
	evals, err := s.repo.Evaluation.ListByPeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("列出周期评价失败", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EvaluationResponse, 0, len(evals))
	for i := range evals {
		result = append(result, *s.toEvaluationResponse(&evals[i], false))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *evaluationService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Evaluation.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		s.logger.Error("查询评价失败", zap.String("id", id), zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	// 审计行外键不级联，先清后删
	if err := txRepo.Activity.DeleteByEvaluation(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("清理评价审计行失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := txRepo.Evaluation.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("删除评价失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	s.logger.Info("评价已撤销",
		zap.String("evaluation_id", id),
		zap.String("operator", callerID))

	return nil
}

// ── 内部辅助方法 ──

func (s *evaluationService) validateScores(ctx context.Context, items []dto.ScoreItem) ([]model.Score, error) {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.Value < model.ScoreMin || item.Value > model.ScoreMax {
			return nil, ErrScoreOutOfRange
		}
		if seen[item.QuestionID] {
			return nil, ErrScoreDuplicate
		}
		seen[item.QuestionID] = true
		ids = append(ids, item.QuestionID)
	}

	questions, err := s.repo.Question.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("校验题目失败", zap.Error(err))
		return nil, err
	}
	if len(questions) != len(ids) {
		return nil, ErrQuestionInvalid
	}

	scores := make([]model.Score, 0, len(items))
	for _, item := range items {
		scores = append(scores, model.Score{
			QuestionID: item.QuestionID,
			Value:      item.Value,
		})
	}
	return scores, nil
}

// criteriaAverages 计算单条评价在各维度下的平均分，只返回有得分的维度
func (s *evaluationService) criteriaAverages(ctx context.Context, eval *model.Evaluation) ([]dto.CriteriaAverage, error) {
	criteria, err := s.repo.Question.ListCriteria(ctx)
	if err != nil {
		s.logger.Error("查询问卷目录失败", zap.Error(err))
		return nil, err
	}

	questionCriteria := make(map[string]string)
	for i := range criteria {
		for _, q := range criteria[i].Questions {
			questionCriteria[q.QuestionID] = criteria[i].CriteriaID
		}
	}

	sum := make(map[string]int)
	count := make(map[string]int)
	for _, sc := range eval.Scores {
		cid := questionCriteria[sc.QuestionID]
		sum[cid] += sc.Value
		count[cid]++
	}

	result := make([]dto.CriteriaAverage, 0, len(criteria))
	for i := range criteria {
		c := &criteria[i]
		n := count[c.CriteriaID]
		if n == 0 {
			continue
		}
		result = append(result, dto.CriteriaAverage{
			CriteriaID:   c.CriteriaID,
			CriteriaName: c.Name,
			Average:      round2(float64(sum[c.CriteriaID]) / float64(n)),
		})
	}
	return result, nil
}

// toEvaluationResponse hideStudent 为 true 或评价为匿名时不透出学生身份
func (s *evaluationService) toEvaluationResponse(eval *model.Evaluation, hideStudent bool) *dto.EvaluationResponse {
	resp := &dto.EvaluationResponse{
		ID:          eval.EvaluationID,
		TeacherID:   eval.TeacherID,
		SubjectID:   eval.SubjectID,
		PeriodID:    eval.PeriodID,
		Average:     eval.AverageScore(),
		IsAnonymous: eval.IsAnonymous,
		SubmittedAt: eval.SubmittedAt.Format(time.RFC3339),
	}
	if !hideStudent && !eval.IsAnonymous {
		resp.StudentID = eval.StudentID
	}
	if eval.Comment != nil {
		resp.Comment = *eval.Comment
	}
	if eval.Period != nil {
		resp.PeriodName = eval.Period.Name
	}
	if eval.Teacher != nil {
		resp.TeacherName = eval.Teacher.Name
	}
	if eval.Subject != nil {
		resp.SubjectName = eval.Subject.Name
	}
	resp.Scores = make([]dto.ScoreResponse, 0, len(eval.Scores))
	for _, sc := range eval.Scores {
		resp.Scores = append(resp.Scores, dto.ScoreResponse{
			QuestionID: sc.QuestionID,
			Value:      sc.Value,
		})
	}
	return resp
}
