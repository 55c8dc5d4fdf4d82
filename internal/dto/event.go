package dto

// ── 日程事件模块 DTO ──

// CreateEventRequest 创建事件请求
// 必填校验在 Service 层逐字段进行，以便错误信息点名缺失字段
type CreateEventRequest struct {
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Recurrence  string `json:"recurrence"`
	Description string `json:"description"`
}

// UpdateEventRequest 更新父事件请求（部分字段覆盖）
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Recurrence  *string `json:"recurrence"`
	Description *string `json:"description"`
}

// OverrideRequest 单次实例覆盖请求
// 仅允许 {title, start, end, description}；其余字段由 JSON 反序列化直接丢弃
type OverrideRequest struct {
	Title       *string `json:"title"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Description *string `json:"description"`
}

// EventInstance 查询结果中的一条事件实例
// 非重复事件即父事件本身（不带实例标记）；
// 重复事件展开后的实例 ID 形如 {父事件ID}_{YYYY-MM-DD}
type EventInstance struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	Start               string  `json:"start"`
	End                 string  `json:"end"`
	Recurrence          *string `json:"recurrence"`
	Description         string  `json:"description"`
	CreatedAt           string  `json:"created_at"`
	IsRecurringInstance bool    `json:"isRecurringInstance,omitempty"`
	OriginalID          string  `json:"originalId,omitempty"`
	OverriddenAt        string  `json:"overriddenAt,omitempty"`
}
