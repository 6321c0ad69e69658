package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"habit-tracker/store"
)

var (
	// 习惯变更次数
	HabitOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_operations_total",
			Help: "Total number of habit store mutations",
		},
		[]string{"op"}, // op: add, delete, toggle, load
	)

	// 打卡切换次数
	HabitToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_toggles_total",
			Help: "Total number of completion toggles",
		},
		[]string{"state"}, // state: completed, uncompleted
	)

	// 当前习惯数量
	HabitsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habits_tracked",
			Help: "Number of habits currently in the collection",
		},
	)

	// 持久化读写延迟（秒）
	StorageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habit_storage_duration_seconds",
			Help:    "Blob store load/save duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"driver", "operation", "status"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "path", "status"},
	)
)

// Observe 订阅 Store 的变更通知并更新指标
func Observe(s *store.Store) {
	HabitsTracked.Set(float64(s.Len()))

	s.Subscribe(func(ev store.Event) {
		HabitOperations.WithLabelValues(string(ev.Op)).Inc()
		if ev.Op == store.OpToggle {
			state := "uncompleted"
			if ev.Completed {
				state = "completed"
			}
			HabitToggles.WithLabelValues(state).Inc()
		}
		HabitsTracked.Set(float64(s.Len()))
	})
}

// RecordStorageDuration 记录持久化读写延迟
func RecordStorageDuration(driver, operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StorageDuration.WithLabelValues(driver, operation, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
