package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/config"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/api/handler"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/api/middleware"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/internal/model"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/jwt"
	"github.com/ninojusay/Teacher-Evaluation-System-Golden-Success-College-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录接口限流防爆破）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("/me", h.User.GetMe)
				users.GET("", middleware.RoleAuth(model.RoleAdmin), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.GetUser)
				users.POST("", middleware.RoleAuth(model.RoleAdmin), h.User.CreateUser)
				users.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.User.UpdateUser)
			}

			// 评教周期模块
			periods := authorized.Group("/periods")
			{
				periods.GET("", h.Period.ListPeriods)
				periods.GET("/current", h.Period.GetCurrentPeriod)
				periods.GET("/:id", h.Period.GetPeriod)
				periods.POST("", middleware.RoleAuth(model.RoleAdmin), h.Period.CreatePeriod)
				periods.PUT("/:id", middleware.RoleAuth(model.RoleAdmin), h.Period.UpdatePeriod)
				periods.PUT("/:id/set-current", middleware.RoleAuth(model.RoleAdmin), h.Period.SetCurrentPeriod)
				periods.PUT("/:id/toggle", middleware.RoleAuth(model.RoleAdmin), h.Period.TogglePeriod)
				periods.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Period.DeletePeriod)
				periods.GET("/:id/evaluations", middleware.RoleAuth(model.RoleAdmin), h.Evaluation.ListPeriodEvaluations)
			}

			// 选课关系模块
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.GET("", middleware.RoleAuth(model.RoleAdmin), h.Enrollment.ListEnrollments)
				enrollments.POST("", middleware.RoleAuth(model.RoleAdmin), h.Enrollment.CreateEnrollment)
				enrollments.POST("/auto/:id", middleware.RoleAuth(model.RoleAdmin), h.Enrollment.AutoEnrollStudent)
				enrollments.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Enrollment.DeleteEnrollment)
			}

			// 评价模块
			evaluations := authorized.Group("/evaluations")
			{
				evaluations.GET("/eligible", middleware.RoleAuth(model.RoleStudent), h.Evaluation.ListEligibleTeachers)
				evaluations.POST("", middleware.RoleAuth(model.RoleStudent), h.Evaluation.SubmitEvaluation)
				evaluations.GET("/:id", h.Evaluation.GetEvaluation)
				evaluations.DELETE("/:id", middleware.RoleAuth(model.RoleAdmin), h.Evaluation.DeleteEvaluation)
			}

			// 问卷目录模块
			criteria := authorized.Group("/criteria")
			{
				criteria.GET("", h.Question.ListCriteria)
				criteria.PUT("/:id/questions", middleware.RoleAuth(model.RoleAdmin), h.Question.ReplaceQuestions)
			}

			// 统计报表模块
			reports := authorized.Group("/reports")
			{
				reports.GET("/periods/:id", middleware.RoleAuth(model.RoleAdmin), h.Report.GetPeriodReport)
				reports.GET("/periods/:id/top", middleware.RoleAuth(model.RoleAdmin), h.Report.GetTopRated)
				reports.GET("/periods/:id/me", middleware.RoleAuth(model.RoleTeacher), h.Report.GetMySummary)
				reports.GET("/periods/:id/export", middleware.RoleAuth(model.RoleAdmin), h.Report.ExportPeriodReport)
			}

			// 活动日志模块
			activities := authorized.Group("/activities")
			{
				activities.GET("", middleware.RoleAuth(model.RoleAdmin), h.Activity.ListActivities)
			}
		}
	}

	return r
}
