package app

import (
	"net/http"
	"time"

	"go-timesheet/internal/attendance"
	"go-timesheet/internal/leave"
	"go-timesheet/internal/leavebalance"
	"go-timesheet/internal/messaging/kafka"
	"go-timesheet/internal/middleware"
	"go-timesheet/internal/rbac"
	"go-timesheet/internal/rbac/infra"
	"go-timesheet/internal/report"
	"go-timesheet/internal/shared/audit"
	"go-timesheet/internal/shift"
	"go-timesheet/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

const idempotencyTTL = 24 * time.Hour

func newRouter(d dependencies) (*gin.Engine, error) {
	if !d.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(d.cfg.IsDevelopment(), d.logger),
		middleware.DevMode(d.cfg.IsDevelopment()),
		middleware.RequestID(),
		middleware.AccessLog(d.logger.Named("http")),
		middleware.Metrics(d.collector),
		middleware.FeatureFlags(d.flags),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(d.collector.Handler()))

	if err := registerModules(router, d); err != nil {
		return nil, err
	}
	return router, nil
}

func registerModules(router *gin.Engine, d dependencies) error {
	// --- RBAC Core ---
	enforcer, err := infra.NewDefaultEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, d.logger)

	auditLogger := audit.NewStdoutLogger(d.logger)

	// --- Repositories ---
	leaveRepo := leave.NewRepository(d.gormDB)
	balanceRepo := leavebalance.NewRepository(d.gormDB)
	shiftRepo := shift.NewRepository(d.gormDB)
	attendanceRepo := attendance.NewRepository(d.gormDB)
	userRepo := user.NewRepository(d.gormDB)
	outboxRepo := kafka.NewOutboxRepository(d.db)
	reportRepo := report.NewRepository(sqlx.NewDb(d.db, "pgx"))

	// --- Services ---
	leaveService := leave.NewServiceWithOutbox(d.db, leaveRepo, outboxRepo, d.flags, d.collector, auditLogger, d.logger)
	balanceService := leavebalance.NewService(d.db, balanceRepo, auditLogger, d.logger)
	shiftService := shift.NewService(shiftRepo, d.logger)
	attendanceService := attendance.NewService(d.db, attendanceRepo, shiftService, d.location, d.logger)
	reportService := report.NewService(reportRepo, d.collector, d.logger)
	userService := user.NewService(userRepo, d.logger)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, d.logger)
	balanceHandler := leavebalance.NewHandler(balanceService, d.logger)
	shiftHandler := shift.NewHandler(shiftService, d.logger)
	attendanceHandler := attendance.NewHandler(attendanceService, d.logger)
	reportHandler := report.NewHandler(reportService, d.logger)
	userHandler := user.NewHandler(userService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group(d.cfg.APIPrefix)
	api.Use(
		middleware.AuthMiddleware(d.cfg.JWT.Secret),
		middleware.ContextLogger(d.logger),
	)
	if d.cfg.RateLimit.Enabled {
		limiter, err := middleware.NewLimiter(d.cfg.RateLimit, d.rdb)
		if err != nil {
			return err
		}
		api.Use(middleware.RateLimit(limiter, middleware.ByUserOrIP, d.logger))
	} else {
		d.logger.Warn("rate limiting disabled")
	}

	rbac.RegisterRoutes(api, rbacHandler)
	user.RegisterRoutes(api.Group("/users"), userHandler, rbacService)

	calendar := api.Group("/leave-calendar")
	{
		idempotency := middleware.Idempotency(d.rdb, idempotencyTTL, d.logger)
		leavebalance.RegisterRoutes(calendar.Group("/balances"), balanceHandler, rbacService)
		shift.RegisterRoutes(calendar.Group("/shifts"), shiftHandler, rbacService)
		attendance.RegisterRoutes(calendar.Group("/attendance"), attendanceHandler, rbacService)
		report.RegisterRoutes(calendar.Group("/reports"), reportHandler, rbacService)
		leave.RegisterRoutes(calendar, leaveHandler, rbacService, idempotency)
	}

	return nil
}
