package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aista/magic-console/internal/logger"
)

// Структура для хранения данных ответа.
type responseData struct {
	status int
	size   int
}

// LoggingResponseWriter Структура, которой можно подменить оригинальный http.ResponseWriter
// для получения ответа и записи ответа в лог.
type LoggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (l *LoggingResponseWriter) Write(b []byte) (int, error) {
	// записываем ответ, используя оригинальный http.ResponseWriter
	size, err := l.ResponseWriter.Write(b)
	// захватываем размер
	l.responseData.size += size

	return size, err
}

func (l *LoggingResponseWriter) WriteHeader(statusCode int) {
	// записываем код статуса, используя оригинальный http.ResponseWriter
	l.ResponseWriter.WriteHeader(statusCode)
	// захватываем код статуса
	l.responseData.status = statusCode
}

// Flush SSE-подключения требуют стримминга, поэтому пробрасываем Flush
// к оригинальному http.ResponseWriter.
func (l *LoggingResponseWriter) Flush() {
	if f, ok := l.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LogMiddleware Middleware для логирования всех запросов.
func LogMiddleware(h http.Handler) http.Handler {
	f := func(w http.ResponseWriter, r *http.Request) {
		data := responseData{
			status: 0,
			size:   0,
		}

		lw := LoggingResponseWriter{
			ResponseWriter: w,
			responseData:   &data,
		}

		start := time.Now()
		h.ServeHTTP(&lw, r)
		duration := time.Since(start)

		logger.Log.Debug("Got incoming HTTP request",
			logger.String("uri", r.RequestURI),
			logger.String("method", r.Method),
			logger.String("status", strconv.Itoa(data.status)),
			logger.String("duration", duration.String()),
			logger.String("size", strconv.Itoa(data.size)),
		)
	}

	return http.HandlerFunc(f)
}
