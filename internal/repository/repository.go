package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User       UserRepository
	Subject    SubjectRepository
	Period     PeriodRepository
	Enrollment EnrollmentRepository
	Question   QuestionRepository
	Evaluation EvaluationRepository
	Activity   ActivityRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		User:       NewUserRepo(db),
		Subject:    NewSubjectRepo(db),
		Period:     NewPeriodRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Question:   NewQuestionRepo(db),
		Evaluation: NewEvaluationRepo(db),
		Activity:   NewActivityRepo(db),
	}
}

// BeginTx 开启数据库事务。未绑定数据库（单测注入 mock）时返回 nil 事务，
// 调用方需配合 nil 判断提交/回滚
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到指定事务的 Repository 聚合
// 事务的提交/回滚由调用方负责
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
