package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
)

// Route 一条路由,Pattern使用gorilla/mux的模板语法,{name}匹配一个非空的段
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// wildcardMask 每个段一个字符,字面量段为'0',含变量的段为'1'
func wildcardMask(pattern string) string {
	parts := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	mask := make([]byte, len(parts))
	for i, part := range parts {
		if strings.Contains(part, "{") {
			mask[i] = '1'
		} else {
			mask[i] = '0'
		}
	}
	return string(mask)
}

// routeKey 忽略变量名后的模板,用于检查重复的路由
func routeKey(method, pattern string) (string, error) {
	if !strings.HasPrefix(pattern, "/") {
		return "", fmt.Errorf("pattern %s must start with '/'", pattern)
	}
	parts := strings.Split(pattern, "/")
	names := map[string]bool{}
	for i, part := range parts {
		if !strings.HasPrefix(part, "{") {
			continue
		}
		name := strings.SplitN(strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"), ":", 2)[0]
		if names[name] {
			return "", fmt.Errorf("duplicate variable %s in pattern %s", name, pattern)
		}
		names[name] = true
		parts[i] = "{}"
	}
	return method + " " + strings.Join(parts, "/"), nil
}

// Router 基于gorilla/mux的路由,同一路径上字面量段优先于变量段,与注册的次序无关
type Router struct {
	mux    *mux.Router
	routes []*Route
	keys   map[string]bool
}

// NewRouter 创建Router,以{"error": msg}响应404和405
func NewRouter() *Router {
	p := &Router{mux: mux.NewRouter(), keys: map[string]bool{}}
	p.mux.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RenderError(w, r, http.StatusNotFound, fmt.Sprintf("No route for %s", r.URL.Path))
	})
	p.mux.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", strings.Join(p.allowed(r), ", "))
		RenderError(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("Method %s not allowed", r.Method))
	})
	return p
}

// Handle 注册method和pattern的处理函数
func (p *Router) Handle(method, pattern string, handler http.HandlerFunc) error {
	if method == "" || handler == nil {
		return fmt.Errorf("invalid route %s %s", method, pattern)
	}
	method = strings.ToUpper(method)
	key, err := routeKey(method, pattern)
	if err != nil {
		return err
	}
	// 变量名为空和括号不匹配由mux检查
	if err := mux.NewRouter().NewRoute().Path(pattern).GetError(); err != nil {
		return err
	}
	if p.keys[key] {
		return fmt.Errorf("duplicate route %s %s", method, pattern)
	}

	p.keys[key] = true
	p.routes = append(p.routes, &Route{Method: method, Pattern: pattern, Handler: handler})
	p.rebuild()
	return nil
}

// rebuild mux按注册的次序匹配,先按wildcardMask排序使字面量段靠前
func (p *Router) rebuild() {
	sort.SliceStable(p.routes, func(i, j int) bool {
		return wildcardMask(p.routes[i].Pattern) < wildcardMask(p.routes[j].Pattern)
	})
	m := mux.NewRouter()
	m.NotFoundHandler = p.mux.NotFoundHandler
	m.MethodNotAllowedHandler = p.mux.MethodNotAllowedHandler
	for _, route := range p.routes {
		m.HandleFunc(route.Pattern, route.Handler).Methods(route.Method)
	}
	p.mux = m
}

// allowed 路径可以匹配的方法
func (p *Router) allowed(r *http.Request) []string {
	set := map[string]bool{}
	p.mux.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		methods, err := route.GetMethods()
		if err != nil {
			return nil
		}
		for _, method := range methods {
			req := r.Clone(r.Context())
			req.Method = method
			if route.Match(req, &mux.RouteMatch{}) {
				set[method] = true
			}
		}
		return nil
	})
	allow := make([]string, 0, len(set))
	for method := range set {
		allow = append(allow, method)
	}
	sort.Strings(allow)
	return allow
}

// Routes 已经注册的路由,按匹配的次序
func (p *Router) Routes() []*Route {
	return append([]*Route(nil), p.routes...)
}

func (p *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mux.ServeHTTP(w, r)
}

// PathValue 取得路由中{name}对应的路径参数,不存在时返回空串
func PathValue(req *http.Request, name string) string {
	return mux.Vars(req)[name]
}
