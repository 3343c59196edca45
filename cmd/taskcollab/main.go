// Command taskcollab runs the task-collaboration API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/taskcollab/taskcollab/auth"
	"github.com/taskcollab/taskcollab/config"
	"github.com/taskcollab/taskcollab/logger"
	"github.com/taskcollab/taskcollab/mail"
	"github.com/taskcollab/taskcollab/password"
	"github.com/taskcollab/taskcollab/revocation"
	"github.com/taskcollab/taskcollab/server"
	"github.com/taskcollab/taskcollab/store"
	"github.com/taskcollab/taskcollab/tasks"
	"github.com/taskcollab/taskcollab/token"
	"github.com/taskcollab/taskcollab/users"
)

const serviceName = "taskcollab"

func main() {
	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		logger.NewDefault(serviceName).Fatal("Failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	log := logger.New(&cfg.Logging, serviceName)
	logger.SetGlobalLogger(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("Service failed", map[string]interface{}{"error": err.Error()})
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	db, err := store.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	revoked, err := revocation.New(cfg.Redis, log)
	if err != nil {
		return err
	}
	defer revoked.Close()
	if err := revoked.Ping(ctx); err != nil {
		return err
	}

	codec, err := token.NewCodec(cfg.Token)
	if err != nil {
		return err
	}

	hasher := password.NewBcryptHasher()

	var mailer mail.Sender
	if cfg.Mail.Enabled {
		mailer = mail.NewSendGridSender(cfg.Mail, log)
	} else {
		mailer = mail.NewLogSender(log)
	}

	userStore := store.NewUserStore(db)
	taskStore := store.NewTaskStore(db)

	authSvc := auth.NewService(userStore, codec, revoked, hasher, mailer, auth.Links{
		Domain:     cfg.Domain,
		VerifyPath: cfg.VerifyPath,
		ResetURL:   cfg.ResetURL,
	}, log)
	userSvc := users.NewService(userStore, log)
	taskSvc := tasks.NewService(taskStore, userStore, mailer, log)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()

	engine := srv.GinEngine()
	engine.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy"})
			return
		}
		if err := revoked.Ping(c.Request.Context()); err != nil {
			c.JSON(503, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(200, gin.H{"status": "ok", "service": serviceName})
	})

	api := engine.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewHandlers(authSvc), codec, revoked, userStore)
	users.RegisterRoutes(api, users.NewHandlers(userSvc), codec, revoked, userStore)
	tasks.RegisterRoutes(api, tasks.NewHandlers(taskSvc), codec, revoked, userStore)

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return srv.Stop(context.Background())
}
