package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Kaiki2/scheduler-app/internal/dto"
	"github.com/Kaiki2/scheduler-app/internal/service"
	"github.com/Kaiki2/scheduler-app/pkg/response"
)

// EventHandler 日程事件模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent 创建事件（单次或重复）
// POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求体格式无效")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// ListEvents 查询事件，可按日期过滤并展开重复事件
// GET /api/events?date=YYYY-MM-DD
func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	events, err := h.eventSvc.List(c.Request.Context(), userID, c.Query("date"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, events)
}

// UpdateEvent 更新父事件（不影响单次实例）
// PUT /api/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求体格式无效")
		return
	}

	if err := h.eventSvc.Update(c.Request.Context(), userID, c.Param("id"), &req); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Message(c, "事件已更新")
}

// DeleteEvent 删除父事件（不影响单次实例的覆盖记录）
// DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Message(c, "事件已删除")
}

// OverrideInstance 创建/替换重复事件某一天实例的覆盖
// PUT /api/events/:id/override?date=YYYY-MM-DD
func (h *EventHandler) OverrideInstance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求体格式无效")
		return
	}

	overrideID, err := h.eventSvc.SaveOverride(c.Request.Context(), userID, c.Param("id"), c.Query("date"), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "覆盖已保存", "id": overrideID})
}

// DeleteInstance 软删除重复事件某一天的实例
// DELETE /api/events/:id/override?date=YYYY-MM-DD
func (h *EventHandler) DeleteInstance(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.eventSvc.DeleteInstance(c.Request.Context(), userID, c.Param("id"), c.Query("date")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Message(c, "实例已标记删除")
}

// handleEventError 统一处理日程事件模块业务错误
func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.BadRequest(c, validationErr.Message)
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, "事件不存在")
	default:
		response.InternalError(c)
	}
}
