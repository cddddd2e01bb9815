package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	c "github.com/d0ngw/counters/common"
	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
}

func newTestClient(t *testing.T) *testClient {
	conf := h.NewConfig("127.0.0.1:0")
	require.NoError(t, conf.RegMiddleware(&h.RecoverMiddleware{}))
	require.NoError(t, conf.RegController(NewCounterController(BasePath, store.New())))
	return &testClient{t: t, handler: conf.Handler()}
}

func (p *testClient) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	p.handler.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func (p *testClient) expect(method, path string, status int, body string) {
	w := p.do(method, path)
	assert.Equal(p.t, status, w.Code, "%s %s", method, path)
	if body != "" {
		assert.JSONEq(p.t, body, w.Body.String(), "%s %s", method, path)
	}
}

func TestCreateCounter(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/test_counter", http.StatusCreated, `{"test_counter":0}`)
	client.expect("POST", "/counters/test_counter", http.StatusConflict, `{"error":"Counter 'test_counter' already exists"}`)

	w := client.do("POST", "/counters/test@123")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid counter name")
}

func TestRetrieveAndIncrement(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/test_counter", http.StatusCreated, "")
	client.expect("GET", "/counters/test_counter", http.StatusOK, `{"test_counter":0}`)
	client.expect("PUT", "/counters/test_counter", http.StatusOK, `{"test_counter":1}`)
	client.expect("PUT", "/counters/test_counter", http.StatusOK, `{"test_counter":2}`)
	client.expect("GET", "/counters/test_counter", http.StatusOK, `{"test_counter":2}`)
}

func TestMissingCounters(t *testing.T) {
	client := newTestClient(t)
	notFound := `{"error":"Counter 'non_existent' not found"}`
	client.expect("GET", "/counters/non_existent", http.StatusNotFound, notFound)
	client.expect("PUT", "/counters/non_existent", http.StatusNotFound, notFound)
	client.expect("DELETE", "/counters/non_existent", http.StatusNotFound, notFound)
	client.expect("POST", "/counters/non_existent/reset", http.StatusNotFound, notFound)
	client.expect("PUT", "/counters/non_existent/set/3", http.StatusNotFound, notFound)
}

func TestDeleteCounter(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/test_counter", http.StatusCreated, "")
	w := client.do("DELETE", "/counters/test_counter")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	client.expect("GET", "/counters/test_counter", http.StatusNotFound, "")
}

func TestListAndResetAll(t *testing.T) {
	client := newTestClient(t)
	client.expect("GET", "/counters", http.StatusOK, `{}`)
	client.expect("POST", "/counters/test_counter1", http.StatusCreated, "")
	client.expect("POST", "/counters/test_counter2", http.StatusCreated, "")
	client.expect("GET", "/counters", http.StatusOK, `{"test_counter1":0,"test_counter2":0}`)
	client.expect("POST", "/counters/reset", http.StatusOK, `{"message":"All counters have been reset"}`)
	client.expect("GET", "/counters", http.StatusOK, `{}`)
	client.expect("GET", "/counters/count", http.StatusOK, `{"count":0}`)
}

func TestTotalAndCount(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/test1", http.StatusCreated, "")
	client.expect("POST", "/counters/test2", http.StatusCreated, "")
	client.expect("PUT", "/counters/test1", http.StatusOK, "")
	client.expect("GET", "/counters/total", http.StatusOK, `{"total":1}`)
	client.expect("GET", "/counters/count", http.StatusOK, `{"count":2}`)
}

func TestTopAndBottom(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/a", http.StatusCreated, "")
	client.expect("POST", "/counters/b", http.StatusCreated, "")
	client.expect("PUT", "/counters/b", http.StatusOK, "")
	client.expect("GET", "/counters/top/1", http.StatusOK, `{"b":1}`)

	client.expect("POST", "/counters/reset", http.StatusOK, "")
	client.expect("POST", "/counters/a", http.StatusCreated, "")
	client.expect("POST", "/counters/b", http.StatusCreated, "")
	client.expect("PUT", "/counters/a", http.StatusOK, "")
	client.expect("GET", "/counters/bottom/1", http.StatusOK, `{"b":0}`)
	client.expect("GET", "/counters/bottom/0", http.StatusOK, `{}`)
	client.expect("GET", "/counters/top/x", http.StatusBadRequest, `{"error":"Invalid parameter n 'x'"}`)
	client.expect("GET", "/counters/bottom/99999999999999999999", http.StatusBadRequest,
		`{"error":"Invalid parameter n '99999999999999999999'"}`)

	// 保持降序
	client.expect("PUT", "/counters/a/set/5", http.StatusOK, "")
	client.expect("POST", "/counters/c", http.StatusCreated, "")
	client.expect("PUT", "/counters/c/set/9", http.StatusOK, "")
	w := client.do("GET", "/counters/top/10")
	assert.Equal(t, "{\"c\":9,\"a\":5,\"b\":0}\n", w.Body.String())
}

func TestSetAndReset(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/test1", http.StatusCreated, "")
	client.expect("PUT", "/counters/test1/set/5", http.StatusOK, `{"test1":5}`)

	w := client.do("PUT", "/counters/test1/set/-3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Counter value cannot be negative")
	client.expect("GET", "/counters/test1", http.StatusOK, `{"test1":5}`)

	client.expect("PUT", "/counters/test1/set/abc", http.StatusBadRequest, `{"error":"Invalid counter value 'abc'"}`)
	client.expect("POST", "/counters/test1/reset", http.StatusOK, `{"test1":0}`)
	client.expect("GET", "/counters/test1", http.StatusOK, `{"test1":0}`)
}

func TestThresholds(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/a", http.StatusCreated, "")
	client.expect("POST", "/counters/b", http.StatusCreated, "")
	client.expect("PUT", "/counters/a/set/10", http.StatusOK, "")
	client.expect("GET", "/counters/greater/5", http.StatusOK, `{"a":10}`)

	client.expect("POST", "/counters/reset", http.StatusOK, "")
	client.expect("POST", "/counters/a", http.StatusCreated, "")
	client.expect("POST", "/counters/b", http.StatusCreated, "")
	client.expect("PUT", "/counters/a/set/2", http.StatusOK, "")
	client.expect("GET", "/counters/less/5", http.StatusOK, `{"a":2,"b":0}`)
	client.expect("GET", "/counters/less/1.5", http.StatusBadRequest, "")
}

func TestMethodNotAllowed(t *testing.T) {
	client := newTestClient(t)
	w := client.do("PATCH", "/counters/test_counter")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "DELETE, GET, POST, PUT", w.Header().Get("Allow"))
	assert.Contains(t, w.Body.String(), "error")

	client.expect("DELETE", "/counters", http.StatusMethodNotAllowed, "")
	client.expect("GET", "/counters/a/b/c/d", http.StatusNotFound, "")
}

func TestLiteralSegmentsWin(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/total", http.StatusCreated, `{"total":0}`)
	client.expect("PUT", "/counters/total/set/7", http.StatusOK, `{"total":7}`)
	client.expect("POST", "/counters/x", http.StatusCreated, "")
	// 字面量路由优先,返回总和而不是名为total的计数器
	client.expect("GET", "/counters/total", http.StatusOK, `{"total":7}`)
	client.expect("PUT", "/counters/x", http.StatusOK, "")
	client.expect("GET", "/counters/total", http.StatusOK, `{"total":8}`)
	client.expect("PUT", "/counters/total", http.StatusOK, `{"total":8}`)
	client.expect("POST", "/counters/count", http.StatusCreated, `{"count":0}`)
	client.expect("GET", "/counters/count", http.StatusOK, `{"count":3}`)
	client.expect("DELETE", "/counters/total", http.StatusNoContent, "")
}

func TestMsgPackNegotiation(t *testing.T) {
	client := newTestClient(t)
	client.expect("POST", "/counters/a", http.StatusCreated, "")
	client.expect("PUT", "/counters/a/set/3", http.StatusOK, "")

	r := httptest.NewRequest("GET", "/counters", nil)
	r.Header.Set("Accept", "application/msgpack")
	w := httptest.NewRecorder()
	client.handler.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, h.ContentTypeMsgPack, w.Header().Get("Content-Type"))

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	var counters map[string]int64
	require.NoError(t, c.MsgPackDecodeBytes(body, &counters))
	assert.Equal(t, map[string]int64{"a": 3}, counters)
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(store.NotFoundErrorf("x")))
	assert.Equal(t, http.StatusConflict, StatusOf(store.AlreadyExistsErrorf("x")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(store.InvalidArgumentErrorf("x")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(store.InvalidNameErrorf("x")))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(io.EOF))
}

func TestRenderStoreErrorLogFields(t *testing.T) {
	pre := c.GetLogger()
	defer c.SetLogger(pre)
	var buf bytes.Buffer
	c.SetLogger(c.NewWriterLogger(&c.LogConfig{Level: "debug", NoCaller: true}, &buf))

	w := httptest.NewRecorder()
	renderStoreError(w, httptest.NewRequest("POST", "/counters/a@b", nil), store.InvalidNameErrorf("Invalid counter name 'a@b'"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid counter name 'a@b'"}`, w.Body.String())

	line := buf.String()
	assert.Contains(t, line, "DEBUG")
	assert.Contains(t, line, `"status": 400`)
	assert.Contains(t, line, `"kind": "InvalidName"`)
	assert.Contains(t, line, `"path": "/counters/a@b"`)

	buf.Reset()
	w = httptest.NewRecorder()
	renderStoreError(w, httptest.NewRequest("GET", "/counters/x", nil), io.ErrUnexpectedEOF)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), `"kind": "Unknown"`)
}
