package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/Kaiki2/scheduler-app/internal/dto"
	"github.com/Kaiki2/scheduler-app/internal/model"
	"github.com/Kaiki2/scheduler-app/pkg/timeutil"
)

// ── 重复规则展开核心 ──────────────────────────────────────────
//
// 职责：给定父事件与目标日期，确定性地产出该日期的全部具体实例。
//
//   - expandRule:          规则文本 + 锚点 + 窗口 → 窗口内的发生时刻序列
//   - instanceID:          父事件 ID + 发生日期 → 确定性实例 ID
//   - materializeInstance: 发生时刻 → 完整事件实例（父字段 + 实例标记）
//   - applyOverride:       实例 + 覆盖记录 → 合并结果或抑制
//
// 全部为纯函数，不触碰存储；查询编排见 event_service.go。
// ─────────────────────────────────────────────────────────────

// ErrRecurrenceParse 重复规则文本无法解析
// 调用方据此跳过单个事件而非让整次查询失败
var ErrRecurrenceParse = errors.New("重复规则解析失败")

// expandRule 将重复规则在 [windowStart, windowEnd]（含端点）内展开为发生时刻序列
// anchor 为规则的起始时刻（DTSTART），返回序列按时间升序且无重复
func expandRule(rule string, anchor, windowStart, windowEnd time.Time) ([]time.Time, error) {
	// 规则文本允许带 "RRULE:" 前缀
	text := strings.TrimSpace(rule)
	text = strings.TrimPrefix(text, "RRULE:")

	r, err := rrule.StrToRRule(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecurrenceParse, err)
	}
	r.DTStart(anchor)

	occs := r.Between(windowStart, windowEnd, true)

	// 相邻去重：同一发生时刻最多出现一次
	out := make([]time.Time, 0, len(occs))
	for _, occ := range occs {
		if len(out) > 0 && occ.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, occ)
	}
	return out, nil
}

// instanceID 构造确定性实例 ID：{父事件ID}_{发生日期}
// 同一父事件与同一日历日期总是得到同一 ID，使覆盖查找可幂等寻址
func instanceID(parentID string, occ time.Time) string {
	return parentID + "_" + timeutil.DateOf(occ)
}

// materializeInstance 将一个发生时刻物化为完整事件实例
// 实例继承父事件全部字段，start/end 替换为发生时刻与其加上父事件时长，
// 并打上 isRecurringInstance/originalId 标记
func materializeInstance(parent *model.Event, occ time.Time, duration time.Duration) dto.EventInstance {
	return dto.EventInstance{
		ID:                  instanceID(parent.EventID, occ),
		Title:               parent.Title,
		Start:               timeutil.FormatInstant(occ),
		End:                 timeutil.FormatInstant(occ.Add(duration)),
		Recurrence:          parent.Recurrence,
		Description:         parent.Description,
		CreatedAt:           timeutil.FormatInstant(parent.CreatedAt),
		IsRecurringInstance: true,
		OriginalID:          parent.EventID,
	}
}

// applyOverride 将覆盖记录合并到实例上
// 返回 true 表示实例被软删除，应从结果中剔除；
// 否则按"覆盖字段优先"做浅合并，未覆盖字段保持物化结果
func applyOverride(inst *dto.EventInstance, override *model.EventOverride) (suppressed bool) {
	if override == nil {
		return false
	}
	if override.Deleted {
		return true
	}

	if override.Title != nil {
		inst.Title = *override.Title
	}
	if override.StartAt != nil {
		inst.Start = *override.StartAt
	}
	if override.EndAt != nil {
		inst.End = *override.EndAt
	}
	if override.Description != nil {
		inst.Description = *override.Description
	}
	inst.OverriddenAt = timeutil.FormatInstant(override.OverriddenAt)
	return false
}

// dayWindow 计算某日历日期的展开窗口 [00:00:00, 23:59:59]
// 窗口使用锚点自身的时区基准
func dayWindow(date time.Time, anchor time.Time) (time.Time, time.Time) {
	loc := anchor.Location()
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 0, loc)
	return start, end
}
