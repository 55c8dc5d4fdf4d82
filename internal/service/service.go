package service

import (
	"go.uber.org/zap"

	"github.com/Kaiki2/scheduler-app/config"
	"github.com/Kaiki2/scheduler-app/internal/repository"
	"github.com/Kaiki2/scheduler-app/pkg/jwt"
	"github.com/Kaiki2/scheduler-app/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth   AuthService
	Event  EventService
	Export ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:   NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Event:  NewEventService(repo, logger),
		Export: NewExportService(repo, logger),
	}
}
