package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kaiki2/scheduler-app/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // key: user_id
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Email
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events []*model.Event // 保持插入顺序
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	clone := *event
	m.events = append(m.events, &clone)
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, userID, eventID string) (*model.Event, error) {
	for _, e := range m.events {
		if e.UserID == userID && e.EventID == eventID {
			clone := *e
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ListByUser(_ context.Context, userID string) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if e.UserID == userID {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, userID, eventID string, fields map[string]interface{}) error {
	for _, e := range m.events {
		if e.UserID != userID || e.EventID != eventID {
			continue
		}
		for column, value := range fields {
			switch column {
			case "title":
				e.Title = value.(string)
			case "start_at":
				e.StartAt = value.(string)
			case "end_at":
				e.EndAt = value.(string)
			case "recurrence":
				e.Recurrence, _ = value.(*string)
			case "description":
				e.Description = value.(string)
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Delete(_ context.Context, userID, eventID string) error {
	for i, e := range m.events {
		if e.UserID == userID && e.EventID == eventID {
			m.events = append(m.events[:i], m.events[i+1:]...)
			return nil
		}
	}
	return nil // 幂等删除
}

// ── Mock OverrideRepository ──

type mockOverrideRepo struct {
	overrides map[string]*model.EventOverride // key: user_id + "/" + override_id
	getErr    error                           // 注入查找故障
}

func newMockOverrideRepo() *mockOverrideRepo {
	return &mockOverrideRepo{overrides: make(map[string]*model.EventOverride)}
}

func (m *mockOverrideRepo) Upsert(_ context.Context, override *model.EventOverride) error {
	clone := *override
	m.overrides[override.UserID+"/"+override.OverrideID] = &clone
	return nil
}

func (m *mockOverrideRepo) GetByID(_ context.Context, userID, overrideID string) (*model.EventOverride, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if o, ok := m.overrides[userID+"/"+overrideID]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, gorm.ErrRecordNotFound
}
