package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "habit-tracker/docs"
	"habit-tracker/handler"
	"habit-tracker/metrics"
)

// corsMiddleware 处理 CORS 跨域请求
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// 处理预检请求
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// recoverMiddleware 捕获 panic 防止服务崩溃
func recoverMiddleware(logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", zap.Any("panic", err), zap.String("path", r.URL.Path))
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}()
			next(w, r)
		}
	}
}

// statusRecorder 记录响应状态码
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// observeMiddleware 记录请求日志和延迟指标
func observeMiddleware(logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next(rec, r)

			elapsed := time.Since(start)
			metrics.RecordHTTPRequestDuration(r.Method, r.Pattern, strconv.Itoa(rec.status), elapsed)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", elapsed))
		}
	}
}

// chain 链接多个中间件
func chain(f http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	for i := len(middlewares) - 1; i >= 0; i-- {
		f = middlewares[i](f)
	}
	return f
}

func SetupRoutes(h *handler.Handler, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	withMiddlewares := func(f http.HandlerFunc) http.HandlerFunc {
		return chain(f, observeMiddleware(logger), corsMiddleware, recoverMiddleware(logger))
	}

	optionsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	registerHabitRoutes := func(base string) {
		mux.HandleFunc("GET "+base, withMiddlewares(h.ListHabits))
		mux.HandleFunc("POST "+base, withMiddlewares(h.CreateHabit))
		mux.HandleFunc("OPTIONS "+base, withMiddlewares(optionsHandler))

		mux.HandleFunc("GET "+base+"/stats", withMiddlewares(h.GetStats))
		mux.HandleFunc("GET "+base+"/calendar", withMiddlewares(h.GetCalendar))
		mux.HandleFunc("GET "+base+"/days/{date}", withMiddlewares(h.GetDay))
		mux.HandleFunc("POST "+base+"/save", withMiddlewares(h.SaveHabits))
		mux.HandleFunc("OPTIONS "+base+"/save", withMiddlewares(optionsHandler))

		mux.HandleFunc("DELETE "+base+"/{index}", withMiddlewares(h.DeleteHabit))
		mux.HandleFunc("OPTIONS "+base+"/{index}", withMiddlewares(optionsHandler))
		mux.HandleFunc("POST "+base+"/{index}/toggle", withMiddlewares(h.ToggleHabit))
		mux.HandleFunc("OPTIONS "+base+"/{index}/toggle", withMiddlewares(optionsHandler))
	}

	// Versioned routes with legacy aliases for backward compatibility
	registerHabitRoutes("/api/v1/habits")
	registerHabitRoutes("/api/habits")

	mux.HandleFunc("/health", h.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return mux
}
