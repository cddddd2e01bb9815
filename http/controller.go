package http

import (
	"net/http"
)

// Controller 接口定义http处理器
type Controller interface {
	// GetName 控制器的名称
	GetName() string
	// GetPath 路径前缀,Controller的所有路由都在该路径之下
	GetPath() string
	// GetRoutes 返回Controller的路由表
	GetRoutes() ([]*Route, error)
}

// BaseController 表示一个控制器
type BaseController struct {
	Name string // Controller的名称
	Path string // Controller的路径
}

// GetName impls Controller.GetName
func (p *BaseController) GetName() string {
	return p.Name
}

// GetPath impls Controller.GetPath
func (p *BaseController) GetPath() string {
	return p.Path
}

// NewRoute 创建路由
func NewRoute(method, pattern string, handler http.HandlerFunc) *Route {
	return &Route{Method: method, Pattern: pattern, Handler: handler}
}

// NewControllerRouter 使用controller的路由表创建Router
func NewControllerRouter(controller Controller) (*Router, error) {
	routes, err := controller.GetRoutes()
	if err != nil {
		return nil, err
	}
	router := NewRouter()
	for _, route := range routes {
		if err := router.Handle(route.Method, route.Pattern, route.Handler); err != nil {
			return nil, err
		}
	}
	return router, nil
}
