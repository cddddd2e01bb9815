package api

import (
	"net/http"

	c "github.com/d0ngw/counters/common"
	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
)

// StatusOf 错误对应的HTTP状态码
func StatusOf(err error) int {
	switch store.KindOf(err) {
	case store.NotFound:
		return http.StatusNotFound
	case store.AlreadyExists:
		return http.StatusConflict
	case store.InvalidArgument, store.InvalidName:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func renderStoreError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	level := c.Debug
	if status == http.StatusInternalServerError {
		level = c.Error
	}
	c.Logw(level, "store error",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"kind", store.KindOf(err).String(),
		"err", err.Error())
	h.RenderError(w, r, status, err.Error())
}

// renderCounters 保持counters的顺序
func renderCounters(w http.ResponseWriter, r *http.Request, counters store.Counters) {
	if !h.AcceptMsgPack(r) {
		h.RenderJSON(w, http.StatusOK, counters)
		return
	}
	m := make(c.MsgPackMap, 0, 2*len(counters))
	for _, counter := range counters {
		m = m.Add(counter.Name, counter.Value)
	}
	h.RenderMsgPack(w, http.StatusOK, m)
}

func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := h.GetIntPathValue(r, name)
	if err != nil {
		h.RenderError(w, r, http.StatusBadRequest, "Invalid parameter "+name+" '"+h.PathValue(r, name)+"'")
		return 0, false
	}
	return v, true
}

func int64Param(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := h.GetInt64PathValue(r, name)
	if err != nil {
		h.RenderError(w, r, http.StatusBadRequest, "Invalid parameter "+name+" '"+h.PathValue(r, name)+"'")
		return 0, false
	}
	return v, true
}
