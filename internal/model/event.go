package model

import "time"

// Event 日程事件表 — 对应 events
// 多租户键：(user_id, event_id)，每个事件归属且仅归属一个用户。
// StartAt/EndAt 保存为 ISO-8601 文本，解析延迟到查询阶段，
// 单条坏数据只会让该事件在查询中被跳过。
type Event struct {
	UserID      string    `gorm:"type:uuid;primaryKey"                   json:"-"`
	EventID     string    `gorm:"type:uuid;primaryKey"                   json:"id"`
	Title       string    `gorm:"type:varchar(200);not null"             json:"title"`
	StartAt     string    `gorm:"type:varchar(64);not null;column:start_at" json:"start"`
	EndAt       string    `gorm:"type:varchar(64);not null;column:end_at"   json:"end"`
	Recurrence  *string   `gorm:"type:text"                              json:"recurrence"`
	Description string    `gorm:"type:text;not null;default:''"          json:"description"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"     json:"created_at"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// IsRecurring 事件是否带重复规则
func (e *Event) IsRecurring() bool {
	return e.Recurrence != nil && *e.Recurrence != ""
}
