package api

import (
	"errors"

	c "github.com/d0ngw/counters/common"
	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
)

// BasePath 计数器接口的路径
const BasePath = "/counters"

// Config 计数器服务的配置
type Config struct {
	c.AppConfig `yaml:",inline"`
	HTTP        *h.Config `yaml:"http"`
}

// Parse impls Configurer.Parse
func (p *Config) Parse() error {
	if p.HTTP == nil {
		p.HTTP = &h.Config{}
	}
	return c.Parse(p)
}

// Server 组装Store,CounterController和Http服务
type Server struct {
	Store    *store.Store
	HTTP     *h.Service
	services *c.Services
}

// NewServer 使用已经解析的conf创建Server
func NewServer(conf *Config) (*Server, error) {
	if conf == nil || conf.HTTP == nil {
		return nil, errors.New("http config is required")
	}

	s := store.New()
	httpConf := conf.HTTP
	if err := httpConf.RegMiddleware(&h.AccessLogMiddleware{}); err != nil {
		return nil, err
	}
	if err := httpConf.RegMiddleware(&h.RecoverMiddleware{}); err != nil {
		return nil, err
	}
	if err := httpConf.RegController(NewCounterController(BasePath, s)); err != nil {
		return nil, err
	}

	httpSvc := h.NewService(httpConf)
	return &Server{
		Store:    s,
		HTTP:     httpSvc,
		services: c.NewServices(httpSvc),
	}, nil
}

// Start 初始化并启动所有服务
func (p *Server) Start() error {
	if !p.services.Init() {
		return errors.New("init services fail")
	}
	if !p.services.Start() {
		p.services.Stop()
		return errors.New("start services fail")
	}
	return nil
}

// Stop 停止所有服务
func (p *Server) Stop() {
	p.services.Stop()
}
