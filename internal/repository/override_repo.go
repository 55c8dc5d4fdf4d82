package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kaiki2/scheduler-app/internal/model"
)

// OverrideRepository 实例覆盖数据访问接口
// 键为 (userID, overrideID)，overrideID 可由父事件 ID 与日期重建，
// 因此读取侧是幂等的 O(1) 主键查找
type OverrideRepository interface {
	Upsert(ctx context.Context, override *model.EventOverride) error
	GetByID(ctx context.Context, userID, overrideID string) (*model.EventOverride, error)
}

type overrideRepo struct {
	db *gorm.DB
}

// NewOverrideRepo 创建 OverrideRepository 实例
func NewOverrideRepo(db *gorm.DB) OverrideRepository {
	return &overrideRepo{db: db}
}

func (r *overrideRepo) Upsert(ctx context.Context, override *model.EventOverride) error {
	// 整条替换：同一实例的再次覆盖/软删除以最后一次写入为准
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "override_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"event_id", "title", "start_at", "end_at", "description",
				"deleted", "is_recurring_instance", "overridden_at",
			}),
		}).
		Create(override).Error
}

func (r *overrideRepo) GetByID(ctx context.Context, userID, overrideID string) (*model.EventOverride, error) {
	var override model.EventOverride
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND override_id = ?", userID, overrideID).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}
