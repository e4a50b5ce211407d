package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/masterclass-hub/backend/config"
	"github.com/masterclass-hub/backend/internal/directory"
	"github.com/masterclass-hub/backend/internal/presenters"
)

// PresenterSync periodically reconciles presenters against the employee
// directory so names and headshots stay current without manual edits.
type PresenterSync struct {
	cfg    config.DirectoryConfig
	client *directory.Client
	repo   *presenters.Repository
	logger *zap.Logger
}

// NewPresenterSync creates a presenter sync worker.
func NewPresenterSync(cfg config.DirectoryConfig, client *directory.Client, repo *presenters.Repository, logger *zap.Logger) *PresenterSync {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenterSync{cfg: cfg, client: client, repo: repo, logger: logger}
}

// Run syncs once immediately, then on the configured interval until ctx is
// cancelled.
func (s *PresenterSync) Run(ctx context.Context) {
	if s.cfg.SyncHours <= 0 {
		s.logger.Info("presenter sync disabled")
		return
	}
	s.logger.Info("presenter sync started", zap.Int("interval_hours", s.cfg.SyncHours))

	s.syncOnce(ctx)

	ticker := time.NewTicker(time.Duration(s.cfg.SyncHours) * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("presenter sync stopping")
			return
		case <-ticker.C:
			s.syncOnce(ctx)
		}
	}
}

func (s *PresenterSync) syncOnce(ctx context.Context) {
	employees, err := s.client.Employees(ctx)
	if err != nil {
		s.logger.Error("directory fetch failed", zap.Error(err))
		return
	}

	var created, updated int
	for _, e := range employees {
		if e.HRCID == 0 || e.Name == "" {
			continue
		}
		headshot := ""
		if s.cfg.AvatarBaseURL != "" && e.Email != "" {
			headshot = s.cfg.AvatarBaseURL + "/" + e.Email
		}
		isNew, err := s.repo.UpsertFromDirectory(ctx, e.Name, e.Email, e.HRCID, headshot)
		if err != nil {
			s.logger.Error("presenter upsert failed", zap.Error(err),
				zap.Int64("hrc_id", e.HRCID))
			continue
		}
		if isNew {
			created++
		} else {
			updated++
		}
	}
	s.logger.Info("presenter sync complete",
		zap.Int("employees", len(employees)), zap.Int("created", created), zap.Int("updated", updated))
}
