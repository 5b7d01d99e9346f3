package server

import (
	"context"
	"net/http"
	"time"

	"gymflow/internal/admission"
	"gymflow/internal/attendance"
	"gymflow/internal/auth"
	"gymflow/internal/config"
	"gymflow/internal/email"
	"gymflow/internal/membership"
	"gymflow/internal/notification"
	"gymflow/internal/payment"
	"gymflow/internal/plan"
	"gymflow/internal/renewal"
	"gymflow/internal/schedule"
	"gymflow/internal/scheduler"
	"gymflow/internal/subscription"
	"gymflow/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router     *gin.Engine
	http       *http.Server
	config     *config.Config
	email      *email.Service
	sweeper    *subscription.Sweeper
	dispatcher *notification.Dispatcher
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLoggingMiddleware(), MetricsMiddleware(), corsMiddleware(cfg.CORSOrigins))

	userRepo := user.NewRepository(db)
	planRepo := plan.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)
	renewalRepo := renewal.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	sessionRepo := schedule.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)

	membershipService := membership.NewService(db, paymentRepo, planRepo, subscriptionRepo, renewalRepo, notificationRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, sessionRepo, notificationRepo, admission.NewGate(subscriptionRepo))

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	planHandler := plan.NewHandler(plan.NewService(planRepo))
	paymentHandler := payment.NewHandler(payment.NewService(paymentRepo, planRepo))
	subscriptionHandler := subscription.NewHandler(subscription.NewService(subscriptionRepo))
	renewalHandler := renewal.NewHandler(renewalRepo)
	membershipHandler := membership.NewHandler(membershipService)
	scheduleHandler := schedule.NewHandler(schedule.NewService(sessionRepo, userRepo))
	attendanceHandler := attendance.NewHandler(attendanceService)
	notificationHandler := notification.NewHandler(notificationRepo)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	requestLimit := RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	public := router.Group("/auth")
	{
		public.POST("/login", requestLimit, userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/notifications", notificationHandler.ListMine)
		protected.GET("/schedules/:id", scheduleHandler.Get)
	}

	client := router.Group("/")
	client.Use(authMiddleware, auth.RequireRole(auth.RoleClient))
	{
		client.GET("/plans", planHandler.ListAvailable)
		client.GET("/memberships", subscriptionHandler.ListMine)
		client.GET("/memberships/current", subscriptionHandler.Current)
		client.POST("/memberships/apply", requestLimit, membershipHandler.Apply)
		client.POST("/memberships/renew", requestLimit, membershipHandler.Renew)
		client.GET("/memberships/pending", paymentHandler.GetPending)
		client.DELETE("/memberships/pending", paymentHandler.CancelPending)
		client.GET("/payments", paymentHandler.ListMine)
		client.POST("/schedules/:id/book", attendanceHandler.Book)
		client.GET("/bookings", attendanceHandler.ListMine)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/plans", planHandler.List)
		admin.POST("/plans", planHandler.Create)
		admin.PATCH("/plans/:id", planHandler.Update)
		admin.DELETE("/plans/:id", planHandler.Delete)

		admin.GET("/payments", paymentHandler.List)
		admin.POST("/payments/:id/approve", membershipHandler.Approve)
		admin.POST("/payments/:id/reject", membershipHandler.Reject)

		admin.GET("/subscriptions", subscriptionHandler.List)
		admin.PATCH("/subscriptions/:id/status", subscriptionHandler.UpdateStatus)
		admin.GET("/renewals", renewalHandler.List)

		admin.GET("/schedules", scheduleHandler.List)
		admin.POST("/schedules", scheduleHandler.Create)
		admin.POST("/schedules/:id/attendees", attendanceHandler.AddAttendee)
		admin.GET("/schedules/:id/attendees", attendanceHandler.ListAttendees)

		admin.POST("/test-email", TestEmail(emailService))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		config:     cfg,
		email:      emailService,
		sweeper:    subscription.NewSweeper(subscriptionRepo),
		dispatcher: notification.NewDispatcher(db, notificationRepo, emailService, cfg.OutboxBatchSize),
	}
}

// RegisterJobs schedules the expiry sweep, the notification dispatch and
// the email queue gauge.
func (s *Server) RegisterJobs(sched *scheduler.Scheduler) error {
	if err := sched.Register("expiry-sweep", s.config.ExpirySweepSchedule, scheduler.ExpirySweep(s.sweeper)); err != nil {
		return err
	}
	if err := sched.Register("outbox-dispatch", s.config.OutboxDispatchSchedule, scheduler.OutboxDispatch(s.dispatcher)); err != nil {
		return err
	}
	return sched.Register("email-queue-gauge", "@every 30s", func(ctx context.Context) error {
		s.email.QueueLength(ctx)
		return nil
	})
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.ExposeHeaders = []string{"Retry-After"}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
