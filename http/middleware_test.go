package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	c "github.com/d0ngw/counters/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return MiddlewareFunc(func(next http.HandlerFunc) http.HandlerFunc {
			return func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next(w, r)
			}
		})
	}

	conf := NewConfig("127.0.0.1:0")
	require.NoError(t, conf.RegMiddleware(mark("first")))
	require.NoError(t, conf.RegMiddleware(mark("second")))
	assert.Error(t, conf.RegMiddleware(nil))
	require.NoError(t, conf.RegHandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		RenderJSON(w, http.StatusOK, map[string]string{"msg": "pong"})
	}))
	assert.Error(t, conf.RegHandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {}))
	assert.Error(t, conf.RegHandleFunc("/nil", nil))

	w := httptest.NewRecorder()
	conf.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"msg":"pong"}`, w.Body.String())
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecoverMiddleware(t *testing.T) {
	h := (&AccessLogMiddleware{}).Handle((&RecoverMiddleware{}).Handle(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h(w, httptest.NewRequest("GET", "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error:boom"}`, w.Body.String())
}

func TestStatusRecorder(t *testing.T) {
	w := httptest.NewRecorder()
	rec := &statusRecorder{ResponseWriter: w}
	assert.Equal(t, http.StatusOK, rec.statusCode())
	rec.WriteHeader(http.StatusCreated)
	rec.Write([]byte("abc"))
	assert.Equal(t, http.StatusCreated, rec.statusCode())
	assert.Equal(t, 3, rec.size)
}

func TestRenderMsgPack(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept", "application/x-msgpack")
	assert.True(t, AcceptMsgPack(r))

	w := httptest.NewRecorder()
	RenderError(w, r, http.StatusNotFound, "missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ContentTypeMsgPack, w.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, c.MsgPackDecodeBytes(w.Body.Bytes(), &resp))
	assert.Equal(t, "missing", resp["error"])
}

func TestAccessLogFields(t *testing.T) {
	pre := c.GetLogger()
	defer c.SetLogger(pre)
	var buf bytes.Buffer
	c.SetLogger(c.NewWriterLogger(&c.LogConfig{Level: "info", NoCaller: true}, &buf))

	h := (&AccessLogMiddleware{}).Handle(func(w http.ResponseWriter, r *http.Request) {
		RenderError(w, r, http.StatusConflict, "exists")
	})
	h(httptest.NewRecorder(), httptest.NewRequest("POST", "/counters/a", nil))

	line := buf.String()
	assert.Contains(t, line, "access")
	assert.Contains(t, line, `"method": "POST"`)
	assert.Contains(t, line, `"path": "/counters/a"`)
	assert.Contains(t, line, `"status": 409`)
	assert.Contains(t, line, `"latency"`)
}
