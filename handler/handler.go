package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"habit-tracker/calendar"
	"habit-tracker/date"
	"habit-tracker/model"
	"habit-tracker/store"
)

// Response 统一响应格式
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// CreateHabitRequest 创建习惯请求体
type CreateHabitRequest struct {
	Name     string `json:"name" example:"Run"`
	Category string `json:"category" example:"Fitness"`
}

// ToggleHabitRequest 切换完成状态请求体，date 为空时使用今天
type ToggleHabitRequest struct {
	Date string `json:"date,omitempty" example:"2026-10-19"`
}

// ErrorInfo 错误信息
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HabitView 习惯的只读视图
type HabitView struct {
	Index          int      `json:"index"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Streak         int      `json:"streak"`
	LongestStreak  int      `json:"longest_streak"`
	CompletedToday bool     `json:"completed_today"`
	Completions    []string `json:"completions"`
}

// DayHabit 某天完成的习惯
type DayHabit struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Streak   int    `json:"streak"`
}

// ToggleResult 切换完成状态的结果
type ToggleResult struct {
	Index     int    `json:"index"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	Streak    int    `json:"streak"`
}

// Handler 处理器结构体。Store 本身不是并发安全的，所有访问都经过 mu 串行化。
type Handler struct {
	mu     sync.Mutex
	store  *store.Store
	blobs  store.BlobSaver
	logger *zap.Logger
}

// 超时配置
const (
	SaveTimeout = 5 * time.Second // 保存超时
)

// NewHandler 创建新的处理器
func NewHandler(s *store.Store, blobs store.BlobSaver, logger *zap.Logger) *Handler {
	return &Handler{store: s, blobs: blobs, logger: logger}
}

// sendJSON 发送JSON响应
func (h *Handler) sendJSON(w http.ResponseWriter, status int, response Response) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(response); err != nil {
		// JSON编码失败，直接返回纯文本错误，不要再尝试调用sendError（会递归）
		h.logger.Error("Failed to encode response", zap.Error(err))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error: Failed to encode response"))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// sendError 发送错误响应
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	response := Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
	h.sendJSON(w, status, response)
}

// view 构建习惯视图，调用方需持有锁
func (h *Handler) view(index int, habit *model.Habit, today date.Key) HabitView {
	completions := make([]string, 0, habit.CompletionCount())
	for _, d := range habit.Completions() {
		completions = append(completions, d.String())
	}
	return HabitView{
		Index:          index,
		Name:           habit.Name,
		Category:       habit.Category,
		Streak:         habit.Streak(),
		LongestStreak:  habit.LongestStreak(),
		CompletedToday: habit.CompletedOn(today),
		Completions:    completions,
	}
}

// parseIndex 解析路径中的位置参数
func (h *Handler) parseIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	idxStr := r.PathValue("index")
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_INDEX", fmt.Sprintf("无效的位置格式: %v", err))
		return 0, false
	}
	return idx, true
}

// parseDate 解析日期参数，为空时返回今天
func (h *Handler) parseDate(w http.ResponseWriter, raw string, today date.Key) (date.Key, bool) {
	if raw == "" {
		return today, true
	}
	d, err := date.Parse(raw)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_DATE", "日期格式应为 YYYY-MM-DD")
		return date.Key{}, false
	}
	return d, true
}

// HealthCheck 健康检查
// @Summary 健康检查
// @Description 返回应用当前健康状态
// @Tags health
// @Produce json
// @Success 200 {object} handler.Response
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
		Message: "服务运行正常",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// ListHabits 获取习惯列表
// @Summary 获取习惯列表
// @Description 按添加顺序返回所有习惯及今天的统计
// @Tags habits
// @Produce json
// @Success 200 {object} handler.Response
// @Router /habits [get]
func (h *Handler) ListHabits(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	// 服务可能跨过午夜运行，读取前重新锚定连续天数
	h.store.RefreshStreaks()
	today := h.store.Today()
	habits := h.store.Habits()
	views := make([]HabitView, 0, len(habits))
	for i, habit := range habits {
		views = append(views, h.view(i, habit, today))
	}
	stats := h.store.Stats(today)
	h.mu.Unlock()

	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"habits": views,
			"date":   today.String(),
			"stats":  stats,
		},
		Message: "获取习惯列表成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// CreateHabit 创建习惯
// @Summary 创建习惯
// @Description 在列表末尾添加一个新习惯
// @Tags habits
// @Accept json
// @Produce json
// @Param habit body handler.CreateHabitRequest true "习惯内容"
// @Success 201 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /habits [post]
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 限制1MB

	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("JSON解析失败: %v", err))
		return
	}

	h.mu.Lock()
	habit, err := h.store.AddHabit(req.Name, req.Category)
	var view HabitView
	if err == nil {
		view = h.view(h.store.Len()-1, habit, h.store.Today())
	}
	h.mu.Unlock()

	if err != nil {
		if errors.Is(err, store.ErrInvalidHabit) {
			h.sendError(w, http.StatusBadRequest, "VALIDATION_ERROR", "名称和分类不能为空")
			return
		}
		h.logger.Error("Failed to create habit", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "创建失败")
		return
	}

	response := Response{
		Success: true,
		Data:    view,
		Message: "创建习惯成功",
	}
	h.sendJSON(w, http.StatusCreated, response)
}

// DeleteHabit 删除习惯
// @Summary 删除习惯
// @Description 删除指定位置的习惯，后面的习惯位置前移。删除确认由客户端负责。
// @Tags habits
// @Produce json
// @Param index path int true "习惯位置"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /habits/{index} [delete]
func (h *Handler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	idx, ok := h.parseIndex(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	err := h.store.DeleteHabit(idx)
	h.mu.Unlock()

	if err != nil {
		if errors.Is(err, store.ErrIndexOutOfRange) {
			h.sendError(w, http.StatusNotFound, "NOT_FOUND", "习惯不存在")
			return
		}
		h.logger.Error("Failed to delete habit", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "删除失败")
		return
	}

	response := Response{
		Success: true,
		Message: "删除习惯成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// ToggleHabit 切换某天的完成状态
// @Summary 切换完成状态
// @Description 切换指定习惯在某天(默认今天)的完成状态，并返回重新计算的连续天数
// @Tags habits
// @Accept json
// @Produce json
// @Param index path int true "习惯位置"
// @Param body body handler.ToggleHabitRequest false "日期"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Failure 404 {object} handler.Response
// @Router /habits/{index}/toggle [post]
func (h *Handler) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	idx, ok := h.parseIndex(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req ToggleHabitRequest
	// 请求体可以为空
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.sendError(w, http.StatusBadRequest, "INVALID_JSON", fmt.Sprintf("JSON解析失败: %v", err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.parseDate(w, req.Date, h.store.Today())
	if !ok {
		return
	}

	completed, err := h.store.ToggleCompletion(idx, d)
	if err != nil {
		if errors.Is(err, store.ErrIndexOutOfRange) {
			h.sendError(w, http.StatusNotFound, "NOT_FOUND", "习惯不存在")
			return
		}
		h.logger.Error("Failed to toggle habit", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "更新失败")
		return
	}

	habit, _ := h.store.Habit(idx)
	response := Response{
		Success: true,
		Data: ToggleResult{
			Index:     idx,
			Date:      d.String(),
			Completed: completed,
			Streak:    habit.Streak(),
		},
		Message: "更新完成状态成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// GetStats 获取统计信息
// @Summary 获取统计信息
// @Description 返回习惯总数和某天(默认今天)已完成的数量
// @Tags habits
// @Produce json
// @Param date query string false "日期 YYYY-MM-DD"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /habits/stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.parseDate(w, r.URL.Query().Get("date"), h.store.Today())
	if !ok {
		return
	}

	response := Response{
		Success: true,
		Data:    h.store.Stats(d),
		Message: "获取统计信息成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// GetDay 获取某天完成的习惯
// @Summary 获取某天完成的习惯
// @Description 按列表顺序返回在该日期完成的习惯
// @Tags habits
// @Produce json
// @Param date path string true "日期 YYYY-MM-DD"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /habits/days/{date} [get]
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	d, ok := h.parseDate(w, r.PathValue("date"), h.store.Today())
	if !ok {
		return
	}

	h.store.RefreshStreaks()
	completed := make([]DayHabit, 0)
	for habit := range h.store.CompletedOn(d) {
		completed = append(completed, DayHabit{
			Name:     habit.Name,
			Category: habit.Category,
			Streak:   habit.Streak(),
		})
	}

	message := "获取当天习惯成功"
	if len(completed) == 0 {
		message = "这一天没有完成任何习惯"
	}

	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"date":   d.String(),
			"habits": completed,
		},
		Message: message,
	}
	h.sendJSON(w, http.StatusOK, response)
}

// GetCalendar 获取月历
// @Summary 获取月历
// @Description 返回某月(默认本月)每天是否为今天、是否选中、是否有习惯完成
// @Tags calendar
// @Produce json
// @Param month query string false "月份 YYYY-MM"
// @Param selected query string false "选中日期 YYYY-MM-DD"
// @Success 200 {object} handler.Response
// @Failure 400 {object} handler.Response
// @Router /habits/calendar [get]
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	today := h.store.Today()
	month := calendar.MonthOf(today)
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := calendar.ParseMonth(raw)
		if err != nil {
			h.sendError(w, http.StatusBadRequest, "INVALID_MONTH", "月份格式应为 YYYY-MM")
			return
		}
		month = m
	}

	var selected date.Key
	if raw := r.URL.Query().Get("selected"); raw != "" {
		d, ok := h.parseDate(w, raw, today)
		if !ok {
			return
		}
		selected = d
	}

	grid := calendar.Build(month, today, selected, h.store)

	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"month":   month.String(),
			"title":   month.Title(),
			"prev":    month.Prev().String(),
			"next":    month.Next().String(),
			"leading": grid.Leading,
			"days":    grid.Days,
		},
		Message: "获取月历成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}

// SaveHabits 保存习惯(带超时控制)
// @Summary 保存习惯
// @Description 把当前所有习惯写入持久化存储
// @Tags habits
// @Produce json
// @Success 200 {object} handler.Response
// @Failure 408 {object} handler.Response
// @Failure 500 {object} handler.Response
// @Router /habits/save [post]
func (h *Handler) SaveHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), SaveTimeout)
	defer cancel()

	h.mu.Lock()
	err := h.store.SaveTo(ctx, h.blobs)
	count := h.store.Len()
	h.mu.Unlock()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.Warn("SaveHabits timeout", zap.Error(err))
			h.sendError(w, http.StatusRequestTimeout, "TIMEOUT", "保存超时，请稍后重试")
			return
		}
		if errors.Is(err, context.Canceled) {
			h.logger.Info("SaveHabits canceled", zap.Error(err))
			// 客户端取消请求,不需要响应
			return
		}
		h.logger.Error("Failed to save habits", zap.Error(err))
		h.sendError(w, http.StatusInternalServerError, "STORAGE_ERROR", "保存失败")
		return
	}

	response := Response{
		Success: true,
		Data: map[string]interface{}{
			"saved": count,
		},
		Message: "保存成功",
	}
	h.sendJSON(w, http.StatusOK, response)
}
