package handler

import "github.com/Kaiki2/scheduler-app/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth   *AuthHandler
	Event  *EventHandler
	Export *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Event:  NewEventHandler(svc.Event),
		Export: NewExportHandler(svc.Export),
	}
}
