// Package http 提供基本的http服务
package http

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	c "github.com/d0ngw/counters/common"
)

// 默认配置
const (
	DefaultAddr         = ":8080"
	DefaultReadTimeout  = 10
	DefaultWriteTimeout = 10
	// DefaultShutdownTimeout 停止时等待正在处理的请求的最长时间,单位秒
	DefaultShutdownTimeout = 10
)

// Config Http配置
type Config struct {
	Addr            string `yaml:"addr"`             //Http监听地址
	ReadTimeout     int    `yaml:"read_timeout"`     //读超时,单位秒
	WriteTimeout    int    `yaml:"write_timeout"`    //写超时,单位秒
	ShutdownTimeout int    `yaml:"shutdown_timeout"` //停止时的等待时间,单位秒
	MaxConns        int    `yaml:"max_conns"`        //最大的并发连接数,<=0不限制
	middlewares     []Middleware
	handles         map[string]http.HandlerFunc
	lock            sync.Mutex
}

// NewConfig 创建使用默认超时的配置
func NewConfig(addr string) *Config {
	conf := &Config{Addr: addr}
	conf.defaults()
	return conf
}

func (p *Config) defaults() {
	if p.Addr == "" {
		p.Addr = DefaultAddr
	}
	if p.ReadTimeout <= 0 {
		p.ReadTimeout = DefaultReadTimeout
	}
	if p.WriteTimeout <= 0 {
		p.WriteTimeout = DefaultWriteTimeout
	}
	if p.ShutdownTimeout <= 0 {
		p.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// Parse 补全默认值并校验
func (p *Config) Parse() error {
	p.defaults()
	if p.MaxConns < 0 {
		return fmt.Errorf("invalid max_conns %d", p.MaxConns)
	}
	return nil
}

// RegController 将controller的路由表注册到controller的路径下
func (p *Config) RegController(controller Controller) error {
	if controller == nil {
		return fmt.Errorf("Can't reg nil controller")
	}

	router, err := NewControllerRouter(controller)
	if err != nil {
		return err
	}

	path := strings.TrimSuffix(controller.GetPath(), "/")
	if path == "" {
		return p.RegHandleFunc("/", router.ServeHTTP)
	}
	if err := p.RegHandleFunc(path, router.ServeHTTP); err != nil {
		return err
	}
	if err := p.RegHandleFunc(path+"/", router.ServeHTTP); err != nil {
		return err
	}
	for _, route := range router.Routes() {
		c.Infof("Register controller %T#%s,route:%s %s", controller, controller.GetName(), route.Method, route.Pattern)
	}
	return nil
}

// RegHandleFunc 注册patternPath的处理函数handlerFunc
func (p *Config) RegHandleFunc(patternPath string, handlerFunc http.HandlerFunc) error {
	if handlerFunc == nil {
		return fmt.Errorf("Can't bind nil handlerFunc to path %s", patternPath)
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.handles == nil {
		p.handles = map[string]http.HandlerFunc{}
	}
	if _, ok := p.handles[patternPath]; ok {
		return fmt.Errorf("Duplicate ,path:%s", patternPath)
	}
	p.handles[patternPath] = handlerFunc
	return nil
}

// RegMiddleware 注册middleware,先注册的在外层
func (p *Config) RegMiddleware(middleware Middleware) error {
	if middleware == nil {
		return fmt.Errorf("invalid middleware")
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	p.middlewares = append(p.middlewares, middleware)
	return nil
}

// Handler 构建包含所有注册的处理函数和middleware的http.Handler
func (p *Config) Handler() http.Handler {
	p.lock.Lock()
	defer p.lock.Unlock()

	serveMux := http.NewServeMux()
	for pattern, handler := range p.handles {
		serveMux.Handle(pattern, p.handleWithMiddleware(handler))
	}
	return serveMux
}

// handleWithMiddleware 依次调用各个middleware
func (p *Config) handleWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	h := handler
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		h = p.middlewares[i].Handle(h)
	}
	return h
}
