package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Kaiki2/scheduler-app/internal/model"
)

// EventRepository 日程事件数据访问接口
// 所有操作都以 userID 为租户键，不存在跨用户访问路径
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, userID, eventID string) (*model.Event, error)
	ListByUser(ctx context.Context, userID string) ([]model.Event, error)
	Update(ctx context.Context, userID, eventID string, fields map[string]interface{}) error
	Delete(ctx context.Context, userID, eventID string) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, userID, eventID string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByUser(ctx context.Context, userID string) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Update(ctx context.Context, userID, eventID string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Updates(fields).Error
}

func (r *eventRepo) Delete(ctx context.Context, userID, eventID string) error {
	// 幂等删除；不级联覆盖记录（孤儿覆盖随父事件消失变为不可达）
	return r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&model.Event{}).Error
}
