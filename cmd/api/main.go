// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/sitegrid/sitegrid-backend/internal/api/handlers"
	"github.com/sitegrid/sitegrid-backend/internal/api/middleware"
	"github.com/sitegrid/sitegrid-backend/internal/config"
	"github.com/sitegrid/sitegrid-backend/internal/cron"
	"github.com/sitegrid/sitegrid-backend/internal/db"
	"github.com/sitegrid/sitegrid-backend/internal/email"
	"github.com/sitegrid/sitegrid-backend/internal/notification"
	"github.com/sitegrid/sitegrid-backend/internal/repository"
	"github.com/sitegrid/sitegrid-backend/internal/seed"
	"github.com/sitegrid/sitegrid-backend/internal/service"
	"github.com/sitegrid/sitegrid-backend/internal/socket"
	"github.com/sitegrid/sitegrid-backend/internal/tokenstore"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// ============================================
	// Database: migrations, pgx pool, sqlx read connection.
	// When Postgres is unreachable in development we fall back to the
	// in-memory repositories so the API still comes up.
	// ============================================
	var repos *repository.Repositories

	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err == nil {
		err = pgPool.Ping(ctx)
	}
	if err != nil {
		if cfg.Environment == "production" {
			log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
		}
		log.Printf("⚠️  PostgreSQL unavailable (%v), using in-memory repositories", err)
		repos = repository.NewRepositories()
	} else {
		defer pgPool.Close()

		log.Println("🔄 Running database migrations...")
		if err := db.RunMigrations(cfg.DatabaseURL, "./internal/db/migrations"); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		log.Println("✅ Database migrations completed")

		reportDB, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to open report DB: %v", err)
		}
		defer reportDB.Close()

		repos = repository.NewPgRepositories(pgPool, reportDB)
		log.Println("✅ Connected to PostgreSQL")
	}

	// ============================================
	// Redis (optional): report cache + socket ticket store
	// ============================================
	var redisDB *db.RedisDB
	tickets := tokenstore.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Failed to connect to Redis: %v (continuing without cache)", err)
			redisDB = nil
		} else {
			defer redisDB.Close()
			tickets = tokenstore.NewRedisStore(redisDB.Client)
			log.Println("⚡ Redis enabled")
		}
	}

	// ============================================
	// Email service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// WebSocket hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed data (for development)
	// ============================================
	if cfg.Environment != "production" {
		seed.SeedData(repos)
	}

	// ============================================
	// Services
	// ============================================
	notificationSvc := notification.NewService(
		repos.NotificationRepo,
		repos.UserRepo,
		repos.ProjectRepo,
	)
	notificationSvc.SetBroadcaster(broadcaster)

	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		NotifSvc:    notificationSvc,
		EmailSvc:    emailSvc,
		Broadcaster: broadcaster,
		TokenStore:  tickets,
		Cache:       redisDB,
	})
	log.Println("✨ All services initialized")

	h := handlers.NewHandlers(services)
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret, services.Auth)

	// ============================================
	// Cron scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(notificationSvc, emailSvc, repos)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Router
	// ============================================
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"cache":      cacheStatus(redisDB),
			"ws_clients": hub.GetConnectedClientsCount(),
			"email":      emailStatus(emailSvc),
		})
	})

	api := r.Group("/api")
	{
		// ============================================
		// Public routes
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route (authenticates via ticket or bearer token)
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			protected.POST("/auth/socket-ticket", h.Auth.SocketTicket)

			// User routes
			users := protected.Group("/users")
			{
				users.GET("/me", h.User.Me)
				users.PUT("/me", h.User.UpdateProfile)
				users.PUT("/me/password", h.User.ChangePassword)
				users.GET("/:id", h.User.GetUser)
			}

			// Organization routes
			orgs := protected.Group("/organizations")
			{
				orgs.POST("", h.Organization.Create)
				orgs.GET("", h.Organization.List)
				orgs.GET("/:id", h.Organization.Get)
				orgs.PUT("/:id", h.Organization.Update)
				orgs.DELETE("/:id", h.Organization.Delete)

				orgs.POST("/:id/members", h.Organization.AddMember)
				orgs.GET("/:id/members", h.Organization.ListMembers)
				orgs.DELETE("/:id/members/:userId", h.Organization.RemoveMember)

				orgs.POST("/:id/roles", h.Role.CreateOrgRole)
				orgs.GET("/:id/roles", h.Role.ListOrgRoles)

				orgs.POST("/:id/projects", h.Project.Create)
				orgs.GET("/:id/projects", h.Project.ListForOrganization)
			}

			// Organization role routes
			orgRoles := protected.Group("/org-roles")
			{
				orgRoles.PUT("/:roleId", h.Role.UpdateOrgRole)
				orgRoles.DELETE("/:roleId", h.Role.DeleteOrgRole)
			}

			// Project routes
			projects := protected.Group("/projects")
			{
				projects.GET("/my", h.Project.ListMine)
				projects.GET("/:id", h.Project.Get)
				projects.PUT("/:id", h.Project.Update)
				projects.DELETE("/:id", h.Project.Delete)

				// Members
				projects.POST("/:id/members", h.Project.AddMember)
				projects.GET("/:id/members", h.Project.ListMembers)
				projects.PUT("/:id/members/:userId", h.Project.UpdateMemberRole)
				projects.DELETE("/:id/members/:userId", h.Project.RemoveMember)

				// Roles
				projects.POST("/:id/roles", h.Role.CreateProjectRole)
				projects.GET("/:id/roles", h.Role.ListProjectRoles)

				// Permissions
				projects.GET("/:id/permissions/check", h.Permission.Check)
				projects.PUT("/:id/members/:userId/overrides", h.Permission.SetOverride)
				projects.GET("/:id/members/:userId/overrides", h.Permission.ListOverrides)
				projects.DELETE("/:id/members/:userId/overrides", h.Permission.RemoveOverride)
				projects.PUT("/:id/members/:userId/resource-permissions", h.Permission.SetResourcePermission)
				projects.GET("/:id/members/:userId/resource-permissions", h.Permission.ListResourcePermissions)
				projects.DELETE("/:id/members/:userId/resource-permissions", h.Permission.RemoveResourcePermission)

				// Approvals
				projects.POST("/:id/approvals", h.Approval.Create)
				projects.GET("/:id/approvals", h.Approval.ListByProject)

				// Submittals
				projects.POST("/:id/submittals", h.Submittal.Create)
				projects.GET("/:id/submittals", h.Submittal.ListByProject)

				// Inspections
				projects.POST("/:id/inspections", h.Inspection.Schedule)
				projects.GET("/:id/inspections", h.Inspection.ListByProject)

				// RFIs
				projects.POST("/:id/rfis", h.RFI.Create)
				projects.GET("/:id/rfis", h.RFI.ListByProject)

				// Meetings
				projects.POST("/:id/meetings", h.Meeting.Create)
				projects.GET("/:id/meetings", h.Meeting.ListByProject)

				// Tasks
				projects.POST("/:id/tasks", h.Task.Create)
				projects.GET("/:id/tasks", h.Task.ListByProject)

				// Documents
				projects.POST("/:id/documents", h.Document.Register)
				projects.GET("/:id/documents", h.Document.ListByProject)

				// Reports
				projects.GET("/:id/reports/approvals", h.Report.ProjectApprovals)
			}

			// Project role routes
			projectRoles := protected.Group("/project-roles")
			{
				projectRoles.PUT("/:roleId", h.Role.UpdateProjectRole)
				projectRoles.DELETE("/:roleId", h.Role.DeleteProjectRole)
				projectRoles.GET("/:roleId/permissions", h.Role.ProjectRolePermissions)
			}

			// Approval routes
			approvals := protected.Group("/approvals")
			{
				approvals.GET("/:requestId", h.Approval.Get)
				approvals.POST("/:requestId/submit", h.Approval.Submit)
				approvals.GET("/entity/:entityType/:entityId", h.Approval.GetForEntity)
			}

			steps := protected.Group("/approval-steps")
			{
				steps.POST("/:stepId/decision", h.Approval.Decide)
				steps.POST("/:stepId/reopen", h.Approval.Reopen)
			}

			// Submittal routes
			submittals := protected.Group("/submittals")
			{
				submittals.GET("/:submittalId", h.Submittal.Get)
				submittals.PUT("/:submittalId", h.Submittal.Update)
				submittals.DELETE("/:submittalId", h.Submittal.Delete)
				submittals.POST("/:submittalId/submit", h.Submittal.Submit)
			}

			// Inspection routes
			inspections := protected.Group("/inspections")
			{
				inspections.GET("/:inspectionId", h.Inspection.Get)
				inspections.POST("/:inspectionId/result", h.Inspection.RecordResult)
				inspections.POST("/:inspectionId/cancel", h.Inspection.Cancel)
			}

			// RFI routes
			rfis := protected.Group("/rfis")
			{
				rfis.GET("/:rfiId", h.RFI.Get)
				rfis.POST("/:rfiId/answer", h.RFI.Answer)
				rfis.POST("/:rfiId/close", h.RFI.Close)
			}

			// Meeting routes
			meetings := protected.Group("/meetings")
			{
				meetings.GET("/:meetingId", h.Meeting.Get)
				meetings.POST("/:meetingId/minutes", h.Meeting.RecordMinutes)
				meetings.DELETE("/:meetingId", h.Meeting.Delete)
			}

			// Task routes
			tasks := protected.Group("/tasks")
			{
				tasks.GET("/my", h.Task.ListMine)
				tasks.GET("/:taskId", h.Task.Get)
				tasks.PUT("/:taskId", h.Task.Update)
				tasks.DELETE("/:taskId", h.Task.Delete)
			}

			// Document routes
			documents := protected.Group("/documents")
			{
				documents.GET("/:documentId", h.Document.Get)
				documents.DELETE("/:documentId", h.Document.Delete)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/counts", h.Notification.Counts)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
				notifications.DELETE("", h.Notification.DeleteAll)
			}
		}
	}

	// ============================================
	// Server with graceful shutdown
	// ============================================
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func cacheStatus(redisDB *db.RedisDB) string {
	if redisDB == nil {
		return "disabled"
	}
	return "enabled"
}

func emailStatus(emailSvc *email.Service) string {
	if emailSvc == nil {
		return "disabled"
	}
	return "enabled"
}
