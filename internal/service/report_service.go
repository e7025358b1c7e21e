package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/dto"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
)

// ── 统计报表模块业务错误 ──

var (
	ErrReportNoEvaluations = errors.New("该周期暂无评价数据")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ReportService 统计报表业务接口
//
// 聚合口径：
//   - 单条评价的平均分 = 该条评价所有题目分数的算术平均
//   - 教师总平均分 = 该教师所有评价条目平均分的算术平均（每条评价等权，
//     避免题目数不同的历史问卷互相稀释）
//   - 维度平均分 = 该维度下所有题目分数的算术平均
type ReportService interface {
	PeriodReport(ctx context.Context, periodID string) (*dto.PeriodReportResponse, error)
	// TopRated 返回周期内总平均分最高的前 limit 名教师，
	// 平分时保持首次被评的先后顺序（排序稳定）
	TopRated(ctx context.Context, periodID string, limit int) (*dto.TopRatedResponse, error)
	// TeacherSummary 教师查看自己的统计：含评论原文，但不含任何学生身份
	TeacherSummary(ctx context.Context, teacherID, periodID string) (*dto.TeacherSummaryResponse, error)
	// ExportPeriodReport 导出周期统计为 Excel，
	// 返回 buf（文件内容）、filename（建议文件名）
	ExportPeriodReport(ctx context.Context, periodID string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

// ── 聚合内部结构 ──

type teacherAccum struct {
	teacherID   string
	teacherName string
	evalCount   int
	avgSum      float64 // 各评价条目平均分之和
	// criteriaID → (分数和, 计数)
	criteriaSum   map[string]int
	criteriaCount map[string]int
}

// ────────────────────── PeriodReport ──────────────────────

func (s *reportService) PeriodReport(ctx context.Context, periodID string) (*dto.PeriodReportResponse, error) {
	period, err := s.repo.Period.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询评教周期失败", zap.String("id", periodID), zap.Error(err))
		return nil, err
	}

	evals, err := s.repo.Evaluation.ListByPeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("查询周期评价失败", zap.String("period_id", periodID), zap.Error(err))
		return nil, err
	}

	criteria, questionCriteria, err := s.loadCriteriaIndex(ctx)
	if err != nil {
		return nil, err
	}

	teachers, err := s.aggregate(ctx, evals, questionCriteria)
	if err != nil {
		return nil, err
	}

	items := make([]dto.TeacherReportItem, 0, len(teachers))
	for _, t := range teachers {
		items = append(items, s.toReportItem(t, criteria))
	}

	return &dto.PeriodReportResponse{
		PeriodID:        period.PeriodID,
		PeriodName:      period.Name,
		EvaluationCount: int64(len(evals)),
		Teachers:        items,
	}, nil
}

// ────────────────────── TopRated ──────────────────────

func (s *reportService) TopRated(ctx context.Context, periodID string, limit int) (*dto.TopRatedResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	report, err := s.PeriodReport(ctx, periodID)
	if err != nil {
		return nil, err
	}

	teachers := report.Teachers
	sort.SliceStable(teachers, func(i, j int) bool {
		return teachers[i].OverallAverage > teachers[j].OverallAverage
	})
	if len(teachers) > limit {
		teachers = teachers[:limit]
	}

	return &dto.TopRatedResponse{
		PeriodID: periodID,
		Limit:    limit,
		Teachers: teachers,
	}, nil
}

// ────────────────────── TeacherSummary ──────────────────────

func (s *reportService) TeacherSummary(ctx context.Context, teacherID, periodID string) (*dto.TeacherSummaryResponse, error) {
	evals, err := s.repo.Evaluation.ListByTeacherPeriod(ctx, teacherID, periodID)
	if err != nil {
		s.logger.Error("查询教师评价失败",
			zap.String("teacher_id", teacherID),
			zap.String("period_id", periodID),
			zap.Error(err))
		return nil, err
	}

	criteria, questionCriteria, err := s.loadCriteriaIndex(ctx)
	if err != nil {
		return nil, err
	}

	accum := &teacherAccum{
		teacherID:     teacherID,
		criteriaSum:   make(map[string]int),
		criteriaCount: make(map[string]int),
	}
	comments := make([]string, 0)
	for i := range evals {
		e := &evals[i]
		accum.evalCount++
		accum.avgSum += e.AverageScore()
		for _, sc := range e.Scores {
			cid := questionCriteria[sc.QuestionID]
			accum.criteriaSum[cid] += sc.Value
			accum.criteriaCount[cid]++
		}
		if e.Comment != nil && *e.Comment != "" {
			comments = append(comments, *e.Comment)
		}
	}

	item := s.toReportItem(accum, criteria)

	return &dto.TeacherSummaryResponse{
		PeriodID:         periodID,
		TeacherID:        teacherID,
		EvaluationCount:  item.EvaluationCount,
		OverallAverage:   item.OverallAverage,
		CriteriaAverages: item.CriteriaAverages,
		Comments:         comments,
	}, nil
}

// ────────────────────── ExportPeriodReport ──────────────────────

func (s *reportService) ExportPeriodReport(ctx context.Context, periodID string) (*bytes.Buffer, string, error) {
	report, err := s.PeriodReport(ctx, periodID)
	if err != nil {
		return nil, "", err
	}
	if report.EvaluationCount == 0 {
		return nil, "", ErrReportNoEvaluations
	}

	// 导出前按总平均分排序，平分保持聚合顺序
	teachers := report.Teachers
	sort.SliceStable(teachers, func(i, j int) bool {
		return teachers[i].OverallAverage > teachers[j].OverallAverage
	})

	// 维度列取自第一位教师的维度顺序（全体一致，来自同一问卷目录）
	var criteriaNames []string
	if len(teachers) > 0 {
		for _, ca := range teachers[0].CriteriaAverages {
			criteriaNames = append(criteriaNames, ca.CriteriaName)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "评教统计"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "D", 12)
	for i := range criteriaNames {
		col, _ := excelize.ColumnNumberToName(5 + i)
		f.SetColWidth(sheetName, col, col, 16)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 评教统计", report.PeriodName))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", reportColName(4+len(criteriaNames))))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, reportCell("A", row), "排名")
	f.SetCellValue(sheetName, reportCell("B", row), "教师")
	f.SetCellValue(sheetName, reportCell("C", row), "评价数")
	f.SetCellValue(sheetName, reportCell("D", row), "总平均分")
	for i, name := range criteriaNames {
		f.SetCellValue(sheetName, reportCell(reportColName(4+i), row), name)
	}

	// 数据行
	row = 3
	for rank, t := range teachers {
		f.SetCellValue(sheetName, reportCell("A", row), rank+1)
		f.SetCellValue(sheetName, reportCell("B", row), t.TeacherName)
		f.SetCellValue(sheetName, reportCell("C", row), t.EvaluationCount)
		f.SetCellValue(sheetName, reportCell("D", row), t.OverallAverage)
		for i, ca := range t.CriteriaAverages {
			f.SetCellValue(sheetName, reportCell(reportColName(4+i), row), ca.Average)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("评教统计_%s.xlsx", report.PeriodName)
	return buf, filename, nil
}

// ── 内部辅助方法 ──

// loadCriteriaIndex 返回维度列表（含排序）和 题目ID → 维度ID 映射
func (s *reportService) loadCriteriaIndex(ctx context.Context) ([]model.Criteria, map[string]string, error) {
	criteria, err := s.repo.Question.ListCriteria(ctx)
	if err != nil {
		s.logger.Error("查询问卷目录失败", zap.Error(err))
		return nil, nil, err
	}

	questionCriteria := make(map[string]string)
	for i := range criteria {
		for _, q := range criteria[i].Questions {
			questionCriteria[q.QuestionID] = criteria[i].CriteriaID
		}
	}
	return criteria, questionCriteria, nil
}

// aggregate 按教师聚合评价，保持首次出现的先后顺序
func (s *reportService) aggregate(ctx context.Context, evals []model.Evaluation, questionCriteria map[string]string) ([]*teacherAccum, error) {
	byTeacher := make(map[string]*teacherAccum)
	var order []string

	for i := range evals {
		e := &evals[i]
		t, ok := byTeacher[e.TeacherID]
		if !ok {
			t = &teacherAccum{
				teacherID:     e.TeacherID,
				criteriaSum:   make(map[string]int),
				criteriaCount: make(map[string]int),
			}
			byTeacher[e.TeacherID] = t
			order = append(order, e.TeacherID)
		}
		t.evalCount++
		t.avgSum += e.AverageScore()
		for _, sc := range e.Scores {
			cid := questionCriteria[sc.QuestionID]
			t.criteriaSum[cid] += sc.Value
			t.criteriaCount[cid]++
		}
	}

	// 批量回填教师姓名
	result := make([]*teacherAccum, 0, len(order))
	for _, id := range order {
		t := byTeacher[id]
		user, err := s.repo.User.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
				return nil, err
			}
			// 教师已被硬删：保留统计，姓名留空
		} else {
			t.teacherName = user.Name
		}
		result = append(result, t)
	}
	return result, nil
}

func (s *reportService) toReportItem(t *teacherAccum, criteria []model.Criteria) dto.TeacherReportItem {
	item := dto.TeacherReportItem{
		TeacherID:       t.teacherID,
		TeacherName:     t.teacherName,
		EvaluationCount: t.evalCount,
	}
	if t.evalCount > 0 {
		item.OverallAverage = round2(t.avgSum / float64(t.evalCount))
	}

	item.CriteriaAverages = make([]dto.CriteriaAverage, 0, len(criteria))
	for i := range criteria {
		c := &criteria[i]
		ca := dto.CriteriaAverage{
			CriteriaID:   c.CriteriaID,
			CriteriaName: c.Name,
		}
		if n := t.criteriaCount[c.CriteriaID]; n > 0 {
			ca.Average = round2(float64(t.criteriaSum[c.CriteriaID]) / float64(n))
		}
		item.CriteriaAverages = append(item.CriteriaAverages, ca)
	}
	return item
}

// round2 保留两位小数
func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func reportColName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func reportCell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
