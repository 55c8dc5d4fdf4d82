package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Kaiki2/scheduler-app/internal/model"
	"github.com/Kaiki2/scheduler-app/internal/repository"
	"github.com/Kaiki2/scheduler-app/pkg/timeutil"
)

// ExportService 导出业务接口
//
// 设计说明：
//   - ICS 导出生成标准 iCalendar (RFC 5545) 订阅内容，重复规则原样写入 RRULE
//   - Excel 导出生成事件清单表格
//   - 均以内容 + 建议文件名返回，由 Handler 层设置响应头后写入 Response
//   - 单条坏记录（时间文本损坏）跳过，不影响整体导出
type ExportService interface {
	// ExportICS 导出用户全部事件为 iCalendar 内容
	ExportICS(ctx context.Context, userID string) ([]byte, string, error)
	// ExportExcel 导出用户全部事件为 Excel 清单
	ExportExcel(ctx context.Context, userID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ────────────────────── ExportICS ──────────────────────

func (s *exportService) ExportICS(ctx context.Context, userID string) ([]byte, string, error) {
	events, err := s.repo.Event.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询事件列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//scheduler-app//EN")

	for i := range events {
		event := &events[i]
		start, end, err := parseEventSpan(event)
		if err != nil {
			s.logger.Warn("跳过时间文本损坏的事件",
				zap.String("event_id", event.EventID),
				zap.Error(err),
			)
			continue
		}

		ve := cal.AddEvent(event.EventID)
		ve.SetDtStampTime(event.CreatedAt)
		ve.SetCreatedTime(event.CreatedAt)
		ve.SetStartAt(start)
		ve.SetEndAt(end)
		ve.SetSummary(event.Title)
		if event.Description != "" {
			ve.SetDescription(event.Description)
		}
		if event.IsRecurring() {
			ve.AddRrule(*event.Recurrence)
		}
	}

	filename := fmt.Sprintf("events_%s.ics", time.Now().Format("20060102"))
	return []byte(cal.Serialize()), filename, nil
}

// ────────────────────── ExportExcel ──────────────────────

func (s *exportService) ExportExcel(ctx context.Context, userID string) (*bytes.Buffer, string, error) {
	events, err := s.repo.Event.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询事件列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"ID", "标题", "开始", "结束", "重复规则", "描述", "创建时间"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for i := range events {
		event := &events[i]
		recurrence := ""
		if event.Recurrence != nil {
			recurrence = *event.Recurrence
		}
		values := []interface{}{
			event.EventID,
			event.Title,
			event.StartAt,
			event.EndAt,
			recurrence,
			event.Description,
			timeutil.FormatInstant(event.CreatedAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("events_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// parseEventSpan 解析事件的起止时间文本
func parseEventSpan(event *model.Event) (time.Time, time.Time, error) {
	start, err := timeutil.ParseInstant(event.StartAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start 字段损坏: %w", err)
	}
	end, err := timeutil.ParseInstant(event.EndAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end 字段损坏: %w", err)
	}
	return start, end, nil
}
