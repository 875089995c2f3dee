package main

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smarttermos/termos/internal/config"
	"github.com/smarttermos/termos/internal/domain/anamnesis"
	"github.com/smarttermos/termos/internal/domain/appointment"
	"github.com/smarttermos/termos/internal/domain/document"
	"github.com/smarttermos/termos/internal/domain/patient"
	"github.com/smarttermos/termos/internal/domain/procedure"
	"github.com/smarttermos/termos/internal/domain/professional"
	"github.com/smarttermos/termos/internal/domain/task"
	"github.com/smarttermos/termos/internal/platform/auth"
	"github.com/smarttermos/termos/internal/platform/db"
	"github.com/smarttermos/termos/internal/platform/middleware"
	"github.com/smarttermos/termos/internal/platform/notification"
	"github.com/smarttermos/termos/internal/platform/webhook"
)

// directoryAdapter adapts the patient and procedure repositories to the
// anamnesis.Directory interface, avoiding circular imports between the
// domain packages.
type directoryAdapter struct {
	patients   patient.PatientRepository
	procedures procedure.ProcedureRepository
}

func (d *directoryAdapter) PatientInfo(ctx context.Context, id uuid.UUID) (string, string, error) {
	p, err := d.patients.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}
	phone := ""
	if p.Phone != nil {
		phone = *p.Phone
	}
	return p.Name, phone, nil
}

func (d *directoryAdapter) ProcedureName(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := d.procedures.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

func (d *directoryAdapter) PatientContact(ctx context.Context, id uuid.UUID) (document.PatientContact, error) {
	p, err := d.patients.GetByID(ctx, id)
	if err != nil {
		return document.PatientContact{}, err
	}
	contact := document.PatientContact{Name: p.Name}
	if p.Email != nil {
		contact.Email = *p.Email
	}
	if p.Phone != nil {
		contact.Phone = *p.Phone
	}
	return contact, nil
}

// logLinkSender stands in for the anamnesis webhook when no endpoint is
// configured. It logs the delivery and reports success so the send-link
// flow still works in local development.
type logLinkSender struct {
	logger zerolog.Logger
}

func (l *logLinkSender) SendAnamnesisLink(_ context.Context, anamnesisID string, req webhook.AnamnesisLinkRequest) (*webhook.DeliveryAttempt, error) {
	l.logger.Info().
		Str("anamnesis_id", anamnesisID).
		Str("patient", req.PatientName).
		Str("whatsapp", req.WhatsApp).
		Msg("anamnesis webhook not configured; logging link delivery")
	return &webhook.DeliveryAttempt{
		ID:          uuid.NewString(),
		AnamnesisID: anamnesisID,
		StatusCode:  http.StatusOK,
		Success:     true,
		CreatedAt:   time.Now(),
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "termos-server",
		Short: "Smart Termos API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin account and procedure catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if email == "" || password == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			users := auth.NewUserRepoPG(pool)
			if err := users.Create(ctx, &auth.User{Name: name, Email: email, PasswordHash: hash}); err != nil {
				return fmt.Errorf("create admin user: %w", err)
			}
			fmt.Printf("Created user %s\n", email)

			procSvc := procedure.NewService(procedure.NewProcedureRepoPG(pool))
			seedProcedures := []procedure.Procedure{
				{Name: "Toxina Botulínica", Category: "Estético"},
				{Name: "Preenchimento Labial", Category: "Estético"},
				{Name: "Peeling Químico", Category: "Dermatológico"},
				{Name: "Transplante Capilar", Category: "Capilar"},
			}
			for i := range seedProcedures {
				if err := procSvc.CreateProcedure(ctx, &seedProcedures[i]); err != nil {
					return fmt.Errorf("seed procedure %s: %w", seedProcedures[i].Name, err)
				}
			}
			fmt.Printf("Seeded %d procedures\n", len(seedProcedures))
			return nil
		},
	}
	cmd.Flags().String("name", "Administrador", "Admin display name")
	cmd.Flags().String("email", "", "Admin email")
	cmd.Flags().String("password", "", "Admin password")
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		// Dev only; Validate rejects an empty secret in production. Sessions
		// do not survive a restart with an ephemeral secret.
		buf := make([]byte, 32)
		if _, err := cryptorand.Read(buf); err != nil {
			logger.Fatal().Err(err).Msg("failed to generate session secret")
		}
		secret = []byte(hex.EncodeToString(buf))
		logger.Warn().Msg("JWT_SECRET not set; using an ephemeral secret")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Auth (public routes)
	mailer := notification.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	userRepo := auth.NewUserRepoPG(pool)
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authSvc := auth.NewService(userRepo, secret, tokenTTL, mailer, cfg.BaseURL)
	auth.NewHandler(authSvc).RegisterRoutes(e.Group(""))

	// Protected API group
	api := e.Group("/api/v1")
	if cfg.IsDev() {
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(secret))
	}

	// Patients
	patientRepo := patient.NewPatientRepoPG(pool)
	patientSvc := patient.NewService(patientRepo)
	patient.NewHandler(patientSvc).RegisterRoutes(api)

	// Procedures
	procRepo := procedure.NewProcedureRepoPG(pool)
	procSvc := procedure.NewService(procRepo)
	procedure.NewHandler(procSvc).RegisterRoutes(api)

	// Professionals
	profRepo := professional.NewProfessionalRepoPG(pool)
	profSvc := professional.NewService(profRepo)
	professional.NewHandler(profSvc).RegisterRoutes(api)

	// Tasks
	taskRepo := task.NewTaskRepoPG(pool)
	taskSvc := task.NewService(taskRepo)
	task.NewHandler(taskSvc).RegisterRoutes(api)

	// Appointments
	apptRepo := appointment.NewAppointmentRepoPG(pool)
	apptSvc := appointment.NewService(apptRepo)
	appointment.NewHandler(apptSvc).RegisterRoutes(api)

	// Anamneses
	var linkSender anamnesis.LinkSender
	if cfg.AnamnesisWebhookURL != "" {
		sender, err := webhook.NewSender(cfg.AnamnesisWebhookURL, webhook.NewInMemoryAttemptStore())
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid ANAMNESIS_WEBHOOK_URL")
		}
		linkSender = sender
	} else {
		linkSender = &logLinkSender{logger: logger}
	}
	anamRepo := anamnesis.NewAnamnesisRepoPG(pool)
	directory := &directoryAdapter{patients: patientRepo, procedures: procRepo}
	anamSvc := anamnesis.NewService(anamRepo, directory, linkSender)
	anamnesis.NewHandler(anamSvc).RegisterRoutes(api)

	// Documents
	notifier := notification.NewManager(mailer, notification.NewLinkWhatsAppSender(), notification.NewTemplateEngine())
	docRepo := document.NewDocumentRepoPG(pool)
	docSvc := document.NewService(docRepo)
	generator := document.NewGenerator(time.Now().UnixNano())
	exporter := document.NewPDFExporter(cfg.BaseURL)
	deliverer := document.NewDeliverer(docRepo, directory, notifier, cfg.BaseURL)
	document.NewHandler(docSvc, generator, exporter, deliverer).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
