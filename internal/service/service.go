package service

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blogcms/internal/config"
	"blogcms/internal/repository"
	"blogcms/internal/service/audit"
	"blogcms/internal/service/auth"
	"blogcms/internal/service/comment"
	"blogcms/internal/service/email"
)

type Services struct {
	Audit   audit.Service
	Auth    auth.Service
	Comment comment.Service
}

// NewServices wires the services. Email notifications are attached only when
// a Resend key is configured.
func NewServices(repos *repository.Repositories, redis *redis.Client, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	auditService := audit.NewService(repos.ModerationEvent)
	authService := auth.NewService(cfg)
	commentService := comment.NewService(repos.Comment, redis, comment.Options{
		OwnerName:   cfg.SiteOwnerName,
		CacheTTL:    cfg.CommentCacheTTL,
		BulkWorkers: cfg.BulkApproveWorkers,
		Recorder:    auditService,
		Logger:      logger.Named("comment"),
	})

	if cfg.ResendAPIKey != "" {
		emailService, err := email.NewService(cfg)
		if err != nil {
			return nil, err
		}
		commentService.SetNotifier(emailService)
	} else {
		logger.Info("RESEND_API_KEY not set, comment notifications disabled")
	}

	return &Services{
		Audit:   auditService,
		Auth:    authService,
		Comment: commentService,
	}, nil
}
