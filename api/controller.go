// Package api 将计数器的HTTP接口映射到store.Store
package api

import (
	"net/http"

	c "github.com/d0ngw/counters/common"
	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
)

// ResetAllMessage ResetAll成功后的消息
const ResetAllMessage = "All counters have been reset"

// CounterController 计数器的HTTP接口
type CounterController struct {
	h.BaseController
	Store *store.Store
}

// NewCounterController 创建挂在path下的CounterController
func NewCounterController(path string, s *store.Store) *CounterController {
	return &CounterController{
		BaseController: h.BaseController{Name: "counters", Path: path},
		Store:          s,
	}
}

// GetRoutes impls Controller.GetRoutes
func (p *CounterController) GetRoutes() ([]*h.Route, error) {
	base := p.GetPath()
	return []*h.Route{
		h.NewRoute(http.MethodGet, base, p.List),
		h.NewRoute(http.MethodPost, base+"/reset", p.ResetAll),
		h.NewRoute(http.MethodGet, base+"/total", p.Total),
		h.NewRoute(http.MethodGet, base+"/count", p.Count),
		h.NewRoute(http.MethodGet, base+"/top/{n}", p.Top),
		h.NewRoute(http.MethodGet, base+"/bottom/{n}", p.Bottom),
		h.NewRoute(http.MethodGet, base+"/greater/{threshold}", p.Greater),
		h.NewRoute(http.MethodGet, base+"/less/{threshold}", p.Less),
		h.NewRoute(http.MethodPost, base+"/{name}", p.Create),
		h.NewRoute(http.MethodGet, base+"/{name}", p.Get),
		h.NewRoute(http.MethodPut, base+"/{name}", p.Increment),
		h.NewRoute(http.MethodDelete, base+"/{name}", p.Delete),
		h.NewRoute(http.MethodPut, base+"/{name}/set/{value}", p.Set),
		h.NewRoute(http.MethodPost, base+"/{name}/reset", p.Reset),
	}, nil
}

// Create POST /counters/{name}
func (p *CounterController) Create(w http.ResponseWriter, r *http.Request) {
	name := h.PathValue(r, "name")
	value, err := p.Store.Create(name)
	p.renderValue(w, r, http.StatusCreated, name, value, err)
}

// Get GET /counters/{name}
func (p *CounterController) Get(w http.ResponseWriter, r *http.Request) {
	name := h.PathValue(r, "name")
	value, err := p.Store.Get(name)
	p.renderValue(w, r, http.StatusOK, name, value, err)
}

// Increment PUT /counters/{name}
func (p *CounterController) Increment(w http.ResponseWriter, r *http.Request) {
	name := h.PathValue(r, "name")
	value, err := p.Store.Increment(name)
	p.renderValue(w, r, http.StatusOK, name, value, err)
}

// Delete DELETE /counters/{name}
func (p *CounterController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := p.Store.Delete(h.PathValue(r, "name")); err != nil {
		renderStoreError(w, r, err)
		return
	}
	h.RenderNoContent(w, http.StatusNoContent)
}

// Set PUT /counters/{name}/set/{value}
func (p *CounterController) Set(w http.ResponseWriter, r *http.Request) {
	name := h.PathValue(r, "name")
	value, err := h.GetInt64PathValue(r, "value")
	if err != nil {
		h.RenderError(w, r, http.StatusBadRequest, "Invalid counter value '"+h.PathValue(r, "value")+"'")
		return
	}
	value, err = p.Store.SetValue(name, value)
	p.renderValue(w, r, http.StatusOK, name, value, err)
}

// Reset POST /counters/{name}/reset
func (p *CounterController) Reset(w http.ResponseWriter, r *http.Request) {
	name := h.PathValue(r, "name")
	value, err := p.Store.ResetOne(name)
	p.renderValue(w, r, http.StatusOK, name, value, err)
}

// ResetAll POST /counters/reset
func (p *CounterController) ResetAll(w http.ResponseWriter, r *http.Request) {
	p.Store.ResetAll()
	c.Infof("all counters have been reset")
	h.Render(w, r, http.StatusOK, map[string]string{"message": ResetAllMessage})
}

// List GET /counters
func (p *CounterController) List(w http.ResponseWriter, r *http.Request) {
	renderCounters(w, r, p.Store.List())
}

// Total GET /counters/total
func (p *CounterController) Total(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, map[string]int64{"total": p.Store.Total()})
}

// Count GET /counters/count
func (p *CounterController) Count(w http.ResponseWriter, r *http.Request) {
	h.Render(w, r, http.StatusOK, map[string]int{"count": p.Store.Count()})
}

// Top GET /counters/top/{n}
func (p *CounterController) Top(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n")
	if ok {
		renderCounters(w, r, p.Store.TopN(n))
	}
}

// Bottom GET /counters/bottom/{n}
func (p *CounterController) Bottom(w http.ResponseWriter, r *http.Request) {
	n, ok := intParam(w, r, "n")
	if ok {
		renderCounters(w, r, p.Store.BottomN(n))
	}
}

// Greater GET /counters/greater/{threshold}
func (p *CounterController) Greater(w http.ResponseWriter, r *http.Request) {
	threshold, ok := int64Param(w, r, "threshold")
	if ok {
		renderCounters(w, r, p.Store.GreaterThan(threshold))
	}
}

// Less GET /counters/less/{threshold}
func (p *CounterController) Less(w http.ResponseWriter, r *http.Request) {
	threshold, ok := int64Param(w, r, "threshold")
	if ok {
		renderCounters(w, r, p.Store.LessThan(threshold))
	}
}

func (p *CounterController) renderValue(w http.ResponseWriter, r *http.Request, status int, name string, value int64, err error) {
	if err != nil {
		renderStoreError(w, r, err)
		return
	}
	h.Render(w, r, status, map[string]int64{name: value})
}
