package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// 事件时间以 ISO-8601 文本形式交换与存储。
// 前端可能提交带时区偏移的完整时间戳，也可能提交不带时区的本地时间，
// 不带时区的时间统一按 UTC 解释。

// DateLayout 日历日期格式（日期过滤参数、确定性实例 ID 的日期部分）
const DateLayout = "2006-01-02"

// instantLayouts 按优先级尝试的时间戳格式
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DateLayout,
}

// ParseInstant 解析 ISO-8601 时间戳文本
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("时间戳为空")
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间戳 %q", s)
}

// ParseDate 解析 YYYY-MM-DD 日历日期（UTC 零点）
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("无法解析日期 %q", s)
	}
	return t, nil
}

// FormatInstant 将时间戳格式化为 RFC3339 文本
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339)
}

// DateOf 返回时间戳所在的日历日期文本（保持原时区）
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// SameOrBetweenDates 判断日期 d 是否落在 [start, end] 的日历日期区间内
// 比较的是日历日期而非时刻
func SameOrBetweenDates(d, start, end time.Time) bool {
	day := truncateToDate(d)
	return !day.Before(truncateToDate(start)) && !day.After(truncateToDate(end))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
