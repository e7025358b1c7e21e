package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
	pkgerrors "github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/errors"
)

// ── 问卷目录模块业务错误 ──

var (
	ErrCriteriaNotFound = errors.New("评价维度不存在")
	ErrQuestionInUse    = errors.New("维度题目已被历史评价引用，不可替换")
)

// QuestionService 问卷目录业务接口
type QuestionService interface {
	// ListCriteria 返回完整问卷目录（维度 + 题目，均按 sort_order 排序）
	ListCriteria(ctx context.Context) ([]dto.CriteriaResponse, error)
	// ReplaceQuestions 整组替换某维度的题目：旧题全删、新题全插，事务内完成。
	// 旧题已被历史评价引用时整组替换被拒绝
	ReplaceQuestions(ctx context.Context, criteriaID string, req *dto.ReplaceQuestionsRequest, callerID string) (*dto.CriteriaResponse, error)
}

type questionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuestionService 创建 QuestionService 实例
func NewQuestionService(repo *repository.Repository, logger *zap.Logger) QuestionService {
	return &questionService{repo: repo, logger: logger}
}

// ────────────────────── ListCriteria ──────────────────────

func (s *questionService) ListCriteria(ctx context.Context) ([]dto.CriteriaResponse, error) {
	criteria, err := s.repo.Question.ListCriteria(ctx)
	if err != nil {
		s.logger.Error("查询问卷目录失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CriteriaResponse, 0, len(criteria))
	for i := range criteria {
		result = append(result, *toCriteriaResponse(&criteria[i]))
	}
	return result, nil
}

// ────────────────────── ReplaceQuestions ──────────────────────

func (s *questionService) ReplaceQuestions(ctx context.Context, criteriaID string, req *dto.ReplaceQuestionsRequest, callerID string) (*dto.CriteriaResponse, error) {
	criteria, err := s.repo.Question.GetCriteriaByID(ctx, criteriaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCriteriaNotFound
		}
		s.logger.Error("查询评价维度失败", zap.String("id", criteriaID), zap.Error(err))
		return nil, err
	}

	questions := make([]model.Question, 0, len(req.Questions))
	for _, item := range req.Questions {
		questions = append(questions, model.Question{
			CriteriaID: criteriaID,
			Text:       item.Text,
			SortOrder:  item.SortOrder,
		})
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

	if err := txRepo.Question.ReplaceForCriteria(ctx, criteriaID, questions); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		// 旧题被历史评价的分数行引用时删除会被外键拦下
		if pkgerrors.IsForeignKeyViolation(err, "") {
			return nil, ErrQuestionInUse
		}
		s.logger.Error("替换维度题目失败", zap.String("criteria_id", criteriaID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("维度题目已整组替换",
		zap.String("criteria_id", criteriaID),
		zap.Int("count", len(questions)),
		zap.String("operator", callerID))

	criteria.Questions = questions
	return toCriteriaResponse(criteria), nil
}

// ── 内部辅助方法 ──

func toCriteriaResponse(c *model.Criteria) *dto.CriteriaResponse {
	resp := &dto.CriteriaResponse{
		ID:        c.CriteriaID,
		Name:      c.Name,
		SortOrder: c.SortOrder,
		Questions: make([]dto.QuestionResponse, 0, len(c.Questions)),
	}
	for _, q := range c.Questions {
		resp.Questions = append(resp.Questions, dto.QuestionResponse{
			ID:        q.QuestionID,
			Text:      q.Text,
			SortOrder: q.SortOrder,
		})
	}
	return resp
}
