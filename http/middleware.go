package http

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	c "github.com/d0ngw/counters/common"
)

// Middleware 包装http.HandlerFunc
type Middleware interface {
	// Handle 返回包装了next的处理函数
	Handle(next http.HandlerFunc) http.HandlerFunc
}

// MiddlewareFunc 函数形式的Middleware
type MiddlewareFunc func(next http.HandlerFunc) http.HandlerFunc

// Handle impls Middleware.Handle
func (f MiddlewareFunc) Handle(next http.HandlerFunc) http.HandlerFunc {
	return f(next)
}

// statusRecorder 记录写入的状态码和字节数
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (p *statusRecorder) WriteHeader(status int) {
	if p.status == 0 {
		p.status = status
	}
	p.ResponseWriter.WriteHeader(status)
}

func (p *statusRecorder) Write(b []byte) (int, error) {
	if p.status == 0 {
		p.status = http.StatusOK
	}
	n, err := p.ResponseWriter.Write(b)
	p.size += n
	return n, err
}

func (p *statusRecorder) statusCode() int {
	if p.status == 0 {
		return http.StatusOK
	}
	return p.status
}

// AccessLogMiddleware 记录每个请求的方法,路径,状态码和耗时
type AccessLogMiddleware struct {
}

// Handle impls Middleware.Handle
func (p *AccessLogMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next(rec, r)
		c.Infow("access",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.statusCode(),
			"size", rec.size,
			"latency", time.Since(start),
			"remote", r.RemoteAddr)
	}
}

// RecoverMiddleware 将处理过程中的panic转换为500错误
type RecoverMiddleware struct {
}

// Handle impls Middleware.Handle
func (p *RecoverMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if e := recover(); e != nil {
				c.Errorw("panic", "method", r.Method, "path", r.URL.Path, "err", e, "stack", string(debug.Stack()))
				RenderError(w, r, http.StatusInternalServerError, fmt.Sprintf("internal error:%v", e))
			}
		}()
		next(w, r)
	}
}
