package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Kaiki2/scheduler-app/internal/dto"
	"github.com/Kaiki2/scheduler-app/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock EventService ──

type mockEventService struct {
	createFn         func(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventInstance, error)
	listFn           func(ctx context.Context, userID, dateFilter string) ([]dto.EventInstance, error)
	updateFn         func(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) error
	deleteFn         func(ctx context.Context, userID, eventID string) error
	saveOverrideFn   func(ctx context.Context, userID, eventID, date string, req *dto.OverrideRequest) (string, error)
	deleteInstanceFn func(ctx context.Context, userID, eventID, date string) error
}

func (m *mockEventService) Create(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventInstance, error) {
	return m.createFn(ctx, userID, req)
}

func (m *mockEventService) List(ctx context.Context, userID, dateFilter string) ([]dto.EventInstance, error) {
	return m.listFn(ctx, userID, dateFilter)
}

func (m *mockEventService) Update(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) error {
	return m.updateFn(ctx, userID, eventID, req)
}

func (m *mockEventService) Delete(ctx context.Context, userID, eventID string) error {
	return m.deleteFn(ctx, userID, eventID)
}

func (m *mockEventService) SaveOverride(ctx context.Context, userID, eventID, date string, req *dto.OverrideRequest) (string, error) {
	return m.saveOverrideFn(ctx, userID, eventID, date, req)
}

func (m *mockEventService) DeleteInstance(ctx context.Context, userID, eventID, date string) error {
	return m.deleteInstanceFn(ctx, userID, eventID, date)
}

// setupEventRouter 注册事件路由；authed 为 false 时不注入 user_id，
// 用于验证处理器对缺失认证上下文的防御
func setupEventRouter(svc service.EventService, authed bool) *gin.Engine {
	r := gin.New()
	h := NewEventHandler(svc)

	group := r.Group("/api")
	if authed {
		group.Use(func(c *gin.Context) {
			c.Set("user_id", "user-001")
			c.Next()
		})
	}
	group.POST("/events", h.CreateEvent)
	group.GET("/events", h.ListEvents)
	group.PUT("/events/:id", h.UpdateEvent)
	group.DELETE("/events/:id", h.DeleteEvent)
	group.PUT("/events/:id/override", h.OverrideInstance)
	group.DELETE("/events/:id/override", h.DeleteInstance)
	return r
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("序列化请求体失败: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应体失败: %v, body=%s", err, w.Body.String())
	}
	return body
}

// ── 测试 ──

func TestEventHandler_Create_Success(t *testing.T) {
	svc := &mockEventService{
		createFn: func(_ context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventInstance, error) {
			if userID != "user-001" {
				t.Errorf("期望user-001，实际=%s", userID)
			}
			return &dto.EventInstance{ID: "ev-new", Title: req.Title}, nil
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodPost, "/api/events", gin.H{
		"title": "站会", "start": "2024-03-01T10:00:00Z", "end": "2024-03-01T11:00:00Z",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d, body=%s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["id"] != "ev-new" {
		t.Errorf("期望返回事件本体，实际=%v", body)
	}
}

func TestEventHandler_Create_ValidationErrorNamesField(t *testing.T) {
	svc := &mockEventService{
		createFn: func(_ context.Context, _ string, _ *dto.CreateEventRequest) (*dto.EventInstance, error) {
			return nil, &service.ValidationError{Message: "缺少必填字段: start"}
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodPost, "/api/events", gin.H{"title": "站会"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望400，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "缺少必填字段: start" {
		t.Errorf("期望error点名start字段，实际=%v", body)
	}
}

func TestEventHandler_Create_Unauthenticated(t *testing.T) {
	svc := &mockEventService{
		createFn: func(_ context.Context, _ string, _ *dto.CreateEventRequest) (*dto.EventInstance, error) {
			t.Error("缺失认证上下文时不应调用业务层")
			return nil, nil
		},
	}
	r := setupEventRouter(svc, false)

	w := performJSON(t, r, http.MethodPost, "/api/events", gin.H{
		"title": "站会", "start": "2024-03-01T10:00:00Z", "end": "2024-03-01T11:00:00Z",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("期望401，实际=%d", w.Code)
	}
}

func TestEventHandler_List_PassesDateFilter(t *testing.T) {
	var gotDate string
	svc := &mockEventService{
		listFn: func(_ context.Context, _ string, dateFilter string) ([]dto.EventInstance, error) {
			gotDate = dateFilter
			return []dto.EventInstance{{ID: "ev-001_2024-01-15", IsRecurringInstance: true, OriginalID: "ev-001"}}, nil
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodGet, "/api/events?date=2024-01-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	if gotDate != "2024-01-15" {
		t.Errorf("期望透传date参数，实际=%s", gotDate)
	}

	var list []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("期望数组响应: %v, body=%s", err, w.Body.String())
	}
	if len(list) != 1 || list[0]["originalId"] != "ev-001" {
		t.Errorf("期望实例数组，实际=%v", list)
	}
}

func TestEventHandler_List_InvalidDate(t *testing.T) {
	svc := &mockEventService{
		listFn: func(_ context.Context, _, _ string) ([]dto.EventInstance, error) {
			return nil, &service.ValidationError{Message: "date 参数格式无效"}
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodGet, "/api/events?date=garbage", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际=%d", w.Code)
	}
}

func TestEventHandler_Update_NotFound(t *testing.T) {
	svc := &mockEventService{
		updateFn: func(_ context.Context, _, _ string, _ *dto.UpdateEventRequest) error {
			return service.ErrEventNotFound
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodPut, "/api/events/nonexistent", gin.H{"title": "改名"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望404，实际=%d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] == nil {
		t.Errorf("期望error字段，实际=%v", body)
	}
}

func TestEventHandler_Delete_Success(t *testing.T) {
	var gotEventID string
	svc := &mockEventService{
		deleteFn: func(_ context.Context, _, eventID string) error {
			gotEventID = eventID
			return nil
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodDelete, "/api/events/ev-001", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	if gotEventID != "ev-001" {
		t.Errorf("期望路径参数透传，实际=%s", gotEventID)
	}

	body := decodeBody(t, w)
	if body["message"] == nil {
		t.Errorf("期望message确认字段，实际=%v", body)
	}
}

func TestEventHandler_Override_Success(t *testing.T) {
	svc := &mockEventService{
		saveOverrideFn: func(_ context.Context, _, eventID, date string, req *dto.OverrideRequest) (string, error) {
			if eventID != "ev-001" || date != "2024-01-15" {
				t.Errorf("参数透传错误: eventID=%s date=%s", eventID, date)
			}
			if req.Title == nil || *req.Title != "Rescheduled" {
				t.Error("期望请求体字段透传")
			}
			return "ev-001_2024-01-15", nil
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodPut, "/api/events/ev-001/override?date=2024-01-15",
		gin.H{"title": "Rescheduled"})
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d, body=%s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["id"] != "ev-001_2024-01-15" {
		t.Errorf("期望返回覆盖ID，实际=%v", body)
	}
}

func TestEventHandler_Override_MissingDate(t *testing.T) {
	svc := &mockEventService{
		saveOverrideFn: func(_ context.Context, _, _, _ string, _ *dto.OverrideRequest) (string, error) {
			return "", &service.ValidationError{Message: "缺少 date 参数"}
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodPut, "/api/events/ev-001/override", gin.H{"title": "X"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("期望400，实际=%d", w.Code)
	}
}

func TestEventHandler_DeleteInstance_Success(t *testing.T) {
	var gotDate string
	svc := &mockEventService{
		deleteInstanceFn: func(_ context.Context, _, _, date string) error {
			gotDate = date
			return nil
		},
	}
	r := setupEventRouter(svc, true)

	w := performJSON(t, r, http.MethodDelete, "/api/events/ev-001/override?date=2024-01-15", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望200，实际=%d", w.Code)
	}
	if gotDate != "2024-01-15" {
		t.Errorf("期望date参数透传，实际=%s", gotDate)
	}
}
