package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kaiki2/scheduler-app/internal/dto"
	"github.com/Kaiki2/scheduler-app/internal/model"
	"github.com/Kaiki2/scheduler-app/internal/repository"
	"github.com/Kaiki2/scheduler-app/pkg/timeutil"
)

// ── 日程事件模块业务错误 ──

var (
	ErrEventNotFound = errors.New("事件不存在")
)

// ValidationError 请求参数校验错误，Message 面向调用方返回
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// EventService 日程事件业务接口
type EventService interface {
	// Create 创建事件（单次或重复）
	Create(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventInstance, error)
	// List 查询事件；dateFilter 为空时原样返回全部父事件（重复事件不展开），
	// 给定日期时按日期过滤并展开重复事件
	List(ctx context.Context, userID, dateFilter string) ([]dto.EventInstance, error)
	// Update 部分字段覆盖父事件（不触碰派生实例与覆盖记录）
	Update(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) error
	// Delete 删除父事件（幂等；不级联覆盖记录）
	Delete(ctx context.Context, userID, eventID string) error
	// SaveOverride 创建/替换某一天实例的覆盖记录，返回覆盖 ID
	SaveOverride(ctx context.Context, userID, eventID, date string, req *dto.OverrideRequest) (string, error)
	// DeleteInstance 软删除某一天的实例（写入删除标记）
	DeleteInstance(ctx context.Context, userID, eventID, date string) error
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, userID string, req *dto.CreateEventRequest) (*dto.EventInstance, error) {
	// 逐字段校验，错误信息点名缺失字段
	for field, value := range map[string]string{
		"title": req.Title,
		"start": req.Start,
		"end":   req.End,
	} {
		if value == "" {
			return nil, &ValidationError{Message: fmt.Sprintf("缺少必填字段: %s", field)}
		}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{Message: "标题不能为空"}
	}

	event := &model.Event{
		UserID:      userID,
		EventID:     uuid.New().String(),
		Title:       title,
		StartAt:     req.Start,
		EndAt:       req.End,
		Recurrence:  normalizeRecurrence(req.Recurrence),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("创建事件失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := parentInstance(event)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, userID, dateFilter string) ([]dto.EventInstance, error) {
	events, err := s.repo.Event.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询事件列表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	// 无日期过滤：父事件原样返回，重复事件不展开
	if dateFilter == "" {
		result := make([]dto.EventInstance, 0, len(events))
		for i := range events {
			result = append(result, parentInstance(&events[i]))
		}
		return result, nil
	}

	filterDate, err := timeutil.ParseDate(dateFilter)
	if err != nil {
		return nil, &ValidationError{Message: "date 参数格式无效"}
	}

	// 逐事件展开；单条坏记录（规则或时间文本损坏）只跳过自身，
	// 保证部分结果优于整次查询失败
	result := make([]dto.EventInstance, 0, len(events))
	for i := range events {
		instances, err := s.expandEvent(ctx, userID, &events[i], filterDate)
		if err != nil {
			s.logger.Warn("跳过无法处理的事件",
				zap.String("user_id", userID),
				zap.String("event_id", events[i].EventID),
				zap.Error(err),
			)
			continue
		}
		result = append(result, instances...)
	}

	return result, nil
}

// expandEvent 处理单个父事件在 filterDate 上的查询结果
//   - 非重复事件：日历日期区间命中则原样进入结果
//   - 重复事件：展开 → 物化 → 套用覆盖，被软删除的实例剔除
func (s *eventService) expandEvent(ctx context.Context, userID string, event *model.Event, filterDate time.Time) ([]dto.EventInstance, error) {
	start, err := timeutil.ParseInstant(event.StartAt)
	if err != nil {
		return nil, fmt.Errorf("start 字段损坏: %w", err)
	}
	end, err := timeutil.ParseInstant(event.EndAt)
	if err != nil {
		return nil, fmt.Errorf("end 字段损坏: %w", err)
	}

	if !event.IsRecurring() {
		if timeutil.SameOrBetweenDates(filterDate, start, end) {
			inst := parentInstance(event)
			return []dto.EventInstance{inst}, nil
		}
		return nil, nil
	}

	windowStart, windowEnd := dayWindow(filterDate, start)
	occurrences, err := expandRule(*event.Recurrence, start, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	duration := end.Sub(start)
	instances := make([]dto.EventInstance, 0, len(occurrences))
	for _, occ := range occurrences {
		inst := materializeInstance(event, occ, duration)

		override, err := s.repo.Override.GetByID(ctx, userID, inst.ID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				// 覆盖查找故障只跳过该实例
				s.logger.Warn("覆盖记录查找失败，跳过实例",
					zap.String("instance_id", inst.ID),
					zap.Error(err),
				)
				continue
			}
			override = nil
		}

		if applyOverride(&inst, override) {
			continue // 软删除的实例不进入结果
		}
		instances = append(instances, inst)
	}

	return instances, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, userID, eventID string, req *dto.UpdateEventRequest) error {
	if _, err := s.repo.Event.GetByID(ctx, userID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("查询事件失败", zap.String("event_id", eventID), zap.Error(err))
		return err
	}

	// 仅覆盖请求中出现的字段
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Start != nil {
		fields["start_at"] = *req.Start
	}
	if req.End != nil {
		fields["end_at"] = *req.End
	}
	if req.Recurrence != nil {
		fields["recurrence"] = normalizeRecurrence(*req.Recurrence)
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.repo.Event.Update(ctx, userID, eventID, fields); err != nil {
		s.logger.Error("更新事件失败", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, userID, eventID string) error {
	if err := s.repo.Event.Delete(ctx, userID, eventID); err != nil {
		s.logger.Error("删除事件失败", zap.String("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SaveOverride ──────────────────────

func (s *eventService) SaveOverride(ctx context.Context, userID, eventID, date string, req *dto.OverrideRequest) (string, error) {
	day, err := s.parseOverrideDate(date)
	if err != nil {
		return "", err
	}

	override := &model.EventOverride{
		UserID:              userID,
		OverrideID:          instanceID(eventID, day),
		EventID:             eventID,
		Title:               trimmedPtr(req.Title),
		StartAt:             req.Start,
		EndAt:               req.End,
		Description:         trimmedPtr(req.Description),
		Deleted:             false,
		IsRecurringInstance: true,
		OverriddenAt:        time.Now().UTC(),
	}

	if err := s.repo.Override.Upsert(ctx, override); err != nil {
		s.logger.Error("保存覆盖记录失败", zap.String("override_id", override.OverrideID), zap.Error(err))
		return "", err
	}
	return override.OverrideID, nil
}

// ────────────────────── DeleteInstance ──────────────────────

func (s *eventService) DeleteInstance(ctx context.Context, userID, eventID, date string) error {
	day, err := s.parseOverrideDate(date)
	if err != nil {
		return err
	}

	// 删除标记整条替换既有覆盖内容
	marker := &model.EventOverride{
		UserID:              userID,
		OverrideID:          instanceID(eventID, day),
		EventID:             eventID,
		Deleted:             true,
		IsRecurringInstance: true,
		OverriddenAt:        time.Now().UTC(),
	}

	if err := s.repo.Override.Upsert(ctx, marker); err != nil {
		s.logger.Error("写入删除标记失败", zap.String("override_id", marker.OverrideID), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *eventService) parseOverrideDate(date string) (time.Time, error) {
	if date == "" {
		return time.Time{}, &ValidationError{Message: "缺少 date 参数"}
	}
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "date 参数格式无效"}
	}
	return day, nil
}

// parentInstance 父事件本身作为一条结果（不带实例标记）
func parentInstance(event *model.Event) dto.EventInstance {
	return dto.EventInstance{
		ID:          event.EventID,
		Title:       event.Title,
		Start:       event.StartAt,
		End:         event.EndAt,
		Recurrence:  event.Recurrence,
		Description: event.Description,
		CreatedAt:   timeutil.FormatInstant(event.CreatedAt),
	}
}

// normalizeRecurrence 空白规则统一归一为 NULL
func normalizeRecurrence(rule string) *string {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil
	}
	return &rule
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
