package model

import "time"

// EventOverride 重复事件单次覆盖表 — 对应 event_overrides
// OverrideID = {父事件ID}_{YYYY-MM-DD}，由父事件与日历日期确定性重建，
// 因此查找无需任何关联表。字段级覆盖用指针表达：nil 表示该字段未覆盖。
// Deleted 为 true 时该实例被软删除（记录保留，查询时抑制）。
type EventOverride struct {
	UserID              string    `gorm:"type:uuid;primaryKey"                  json:"-"`
	OverrideID          string    `gorm:"type:varchar(128);primaryKey"          json:"id"`
	EventID             string    `gorm:"type:varchar(64);not null"             json:"originalId"`
	Title               *string   `gorm:"type:varchar(200)"                     json:"title,omitempty"`
	StartAt             *string   `gorm:"type:varchar(64);column:start_at"      json:"start,omitempty"`
	EndAt               *string   `gorm:"type:varchar(64);column:end_at"        json:"end,omitempty"`
	Description         *string   `gorm:"type:text"                             json:"description,omitempty"`
	Deleted             bool      `gorm:"not null;default:false"                json:"deleted"`
	IsRecurringInstance bool      `gorm:"not null;default:true"                 json:"isRecurringInstance"`
	OverriddenAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"    json:"overriddenAt"`
}

// TableName 指定表名
func (EventOverride) TableName() string { return "event_overrides" }
