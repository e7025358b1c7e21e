package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/repository"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id / student_no / "email:"+email
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) index(user *model.User) {
	m.users[user.UserID] = user
	if user.StudentNo != "" {
		m.users[user.StudentNo] = user
	}
	if user.Email != "" {
		m.users["email:"+user.Email] = user
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Name
	}
	m.index(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByStudentNo(_ context.Context, studentNo string) (*model.User, error) {
	if u, ok := m.users[studentNo]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := m.users["email:"+email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.index(user)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	seen := make(map[string]bool)
	var all []model.User
	for _, u := range m.users {
		if seen[u.UserID] {
			continue
		}
		seen[u.UserID] = true
		if role != "" && u.Role != role {
			continue
		}
		all = append(all, *u)
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject
}

func newMockSubjectRepo() *mockSubjectRepo {
	return &mockSubjectRepo{subjects: make(map[string]*model.Subject)}
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) ListBySection(_ context.Context, sectionID string) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if s.SectionID == sectionID {
			result = append(result, *s)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct {
	periods   map[string]*model.EvaluationPeriod
	updateErr error // 非 nil 时 Update 返回该错误（模拟约束冲突）
}

func newMockPeriodRepo() *mockPeriodRepo {
	return &mockPeriodRepo{periods: make(map[string]*model.EvaluationPeriod)}
}

func (m *mockPeriodRepo) Create(_ context.Context, period *model.EvaluationPeriod) error {
	if period.PeriodID == "" {
		period.PeriodID = "period-" + period.Name
	}
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.EvaluationPeriod, error) {
	if p, ok := m.periods[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) GetCurrent(_ context.Context) (*model.EvaluationPeriod, error) {
	for _, p := range m.periods {
		if p.IsCurrent && p.IsActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) List(_ context.Context) ([]model.EvaluationPeriod, error) {
	var result []model.EvaluationPeriod
	for _, p := range m.periods {
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartDate.Before(result[j].StartDate) })
	return result, nil
}

func (m *mockPeriodRepo) ListActiveOverlapping(_ context.Context, start, end time.Time, excludeID string) ([]model.EvaluationPeriod, error) {
	var result []model.EvaluationPeriod
	for _, p := range m.periods {
		if !p.IsActive || p.PeriodID == excludeID {
			continue
		}
		// 含端点的区间重叠
		if !p.EndDate.Before(start) && !p.StartDate.After(end) {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, period *model.EvaluationPeriod) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.periods[period.PeriodID] = period
	return nil
}

func (m *mockPeriodRepo) Delete(_ context.Context, id string) error {
	delete(m.periods, id)
	return nil
}

func (m *mockPeriodRepo) ClearCurrent(_ context.Context, excludeID string) error {
	for _, p := range m.periods {
		if p.PeriodID != excludeID {
			p.IsCurrent = false
		}
	}
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments []model.Enrollment
	idCounter   int
	createErr   error // 非 nil 时 Create 返回该错误（模拟约束冲突）
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.idCounter++
	if enrollment.EnrollmentID == "" {
		enrollment.EnrollmentID = fmt.Sprintf("enr-%d", m.idCounter)
	}
	enrollment.CreatedAt = time.Now()
	m.enrollments = append(m.enrollments, *enrollment)
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	for i, e := range m.enrollments {
		if e.EnrollmentID == id {
			return &m.enrollments[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) Exists(_ context.Context, studentID, subjectID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ExistsTriple(_ context.Context, studentID, teacherID, subjectID string) (bool, error) {
	for _, e := range m.enrollments {
		if e.StudentID == studentID && e.TeacherID == teacherID && e.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEnrollmentRepo) ListByStudentActiveTeacher(_ context.Context, studentID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.StudentID != studentID {
			continue
		}
		// 真实实现按 users.is_active 联表过滤停用教师
		if e.Teacher != nil && !e.Teacher.IsActive {
			continue
		}
		result = append(result, e)
	}
	return result, nil
}

func (m *mockEnrollmentRepo) List(_ context.Context, filter repository.EnrollmentFilter) ([]model.Enrollment, int64, error) {
	var filtered []model.Enrollment
	for _, e := range m.enrollments {
		if filter.StudentID != "" && e.StudentID != filter.StudentID {
			continue
		}
		if filter.SubjectID != "" && e.SubjectID != filter.SubjectID {
			continue
		}
		if filter.TeacherID != "" && e.TeacherID != filter.TeacherID {
			continue
		}
		filtered = append(filtered, e)
	}
	total := int64(len(filtered))
	if filter.Offset >= len(filtered) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[filter.Offset:end], total, nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.enrollments {
		if e.EnrollmentID == id {
			m.enrollments = append(m.enrollments[:i], m.enrollments[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock QuestionRepository ──

type mockQuestionRepo struct {
	criteria   map[string]*model.Criteria
	replaceErr error // 非 nil 时 ReplaceForCriteria 返回该错误
}

func newMockQuestionRepo() *mockQuestionRepo {
	return &mockQuestionRepo{criteria: make(map[string]*model.Criteria)}
}

func (m *mockQuestionRepo) ListCriteria(_ context.Context) ([]model.Criteria, error) {
	var result []model.Criteria
	for _, c := range m.criteria {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (m *mockQuestionRepo) GetCriteriaByID(_ context.Context, id string) (*model.Criteria, error) {
	if c, ok := m.criteria[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQuestionRepo) GetQuestionsByIDs(_ context.Context, ids []string) ([]model.Question, error) {
	var result []model.Question
	for _, id := range ids {
		for _, c := range m.criteria {
			for _, q := range c.Questions {
				if q.QuestionID == id {
					result = append(result, q)
				}
			}
		}
	}
	return result, nil
}

func (m *mockQuestionRepo) ReplaceForCriteria(_ context.Context, criteriaID string, questions []model.Question) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	c, ok := m.criteria[criteriaID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range questions {
		if questions[i].QuestionID == "" {
			questions[i].QuestionID = fmt.Sprintf("q-%s-%d", criteriaID, i+1)
		}
	}
	c.Questions = questions
	return nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evals     []model.Evaluation // 按提交顺序保存
	idCounter int
	createErr error
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{}
}

func (m *mockEvaluationRepo) Create(_ context.Context, eval *model.Evaluation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.idCounter++
	if eval.EvaluationID == "" {
		eval.EvaluationID = fmt.Sprintf("eval-%d", m.idCounter)
	}
	for i := range eval.Scores {
		eval.Scores[i].EvaluationID = eval.EvaluationID
	}
	m.evals = append(m.evals, *eval)
	return nil
}

func (m *mockEvaluationRepo) GetByID(_ context.Context, id string) (*model.Evaluation, error) {
	for i, e := range m.evals {
		if e.EvaluationID == id {
			return &m.evals[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEvaluationRepo) Exists(_ context.Context, studentID, teacherID, subjectID, periodID string) (bool, error) {
	for _, e := range m.evals {
		if e.StudentID == studentID && e.TeacherID == teacherID &&
			e.SubjectID == subjectID && e.PeriodID == periodID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEvaluationRepo) ListPairsByStudentPeriod(_ context.Context, studentID, periodID string) ([]repository.EvaluationPair, error) {
	var result []repository.EvaluationPair
	for _, e := range m.evals {
		if e.StudentID == studentID && e.PeriodID == periodID {
			result = append(result, repository.EvaluationPair{
				TeacherID: e.TeacherID,
				SubjectID: e.SubjectID,
			})
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) ListByPeriod(_ context.Context, periodID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evals {
		if e.PeriodID == periodID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) ListByTeacherPeriod(_ context.Context, teacherID, periodID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, e := range m.evals {
		if e.TeacherID == teacherID && e.PeriodID == periodID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockEvaluationRepo) CountByPeriod(_ context.Context, periodID string) (int64, error) {
	var count int64
	for _, e := range m.evals {
		if e.PeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (m *mockEvaluationRepo) Delete(_ context.Context, id string) error {
	for i, e := range m.evals {
		if e.EvaluationID == id {
			m.evals = append(m.evals[:i], m.evals[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Mock ActivityRepository ──

type mockActivityRepo struct {
	logs      []model.ActivityLog
	idCounter int
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{}
}

func (m *mockActivityRepo) Create(_ context.Context, log *model.ActivityLog) error {
	m.idCounter++
	if log.ActivityLogID == "" {
		log.ActivityLogID = fmt.Sprintf("log-%d", m.idCounter)
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityRepo) GetByID(_ context.Context, id string) (*model.ActivityLog, error) {
	for i, l := range m.logs {
		if l.ActivityLogID == id {
			return &m.logs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) GetOpenLogin(_ context.Context, username, sessionID string) (*model.ActivityLog, error) {
	var found *model.ActivityLog
	for i := range m.logs {
		l := &m.logs[i]
		if l.ActivityType != model.ActivityLogin || l.TimeOut != nil {
			continue
		}
		if sessionID != "" {
			if l.SessionID == nil || *l.SessionID != sessionID {
				continue
			}
		} else if l.Username != username {
			continue
		}
		if found == nil || l.TimeIn.After(found.TimeIn) {
			found = l
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockActivityRepo) Update(_ context.Context, log *model.ActivityLog) error {
	for i, l := range m.logs {
		if l.ActivityLogID == log.ActivityLogID {
			m.logs[i] = *log
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockActivityRepo) List(_ context.Context, filter repository.ActivityFilter) ([]model.ActivityLog, int64, error) {
	var filtered []model.ActivityLog
	for _, l := range m.logs {
		if filter.Username != "" && l.Username != filter.Username {
			continue
		}
		if filter.ActivityType != "" && l.ActivityType != filter.ActivityType {
			continue
		}
		filtered = append(filtered, l)
	}
	total := int64(len(filtered))
	if filter.Offset >= len(filtered) {
		return nil, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[filter.Offset:end], total, nil
}

func (m *mockActivityRepo) DeleteByEvaluation(_ context.Context, evaluationID string) error {
	var remaining []model.ActivityLog
	for _, l := range m.logs {
		if l.EvaluationID != nil && *l.EvaluationID == evaluationID {
			continue
		}
		remaining = append(remaining, l)
	}
	m.logs = remaining
	return nil
}
