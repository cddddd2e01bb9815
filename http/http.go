package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	c "github.com/d0ngw/counters/common"
	"golang.org/x/net/netutil"
)

type tcpKeepAliveListener struct {
	*net.TCPListener
}

// Accept接受连接
func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if err = tc.SetKeepAlive(true); err != nil {
		return
	}
	if err = tc.SetKeepAlivePeriod(3 * time.Minute); err != nil {
		return
	}
	return tc, nil
}

// Service Http服务
type Service struct {
	c.BaseService
	Conf     *Config
	listener net.Listener
	server   *http.Server
	serving  chan struct{} // Serve返回后关闭
	lock     sync.Mutex
}

// NewService 创建Http服务
func NewService(conf *Config) *Service {
	return &Service{
		BaseService: c.BaseService{SName: "http"},
		Conf:        conf,
	}
}

// Init 初始化Http服务
func (p *Service) Init() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.Conf == nil {
		return errors.New("no http config")
	}
	if err := p.Conf.Parse(); err != nil {
		return err
	}

	p.server = &http.Server{
		Addr:         p.Conf.Addr,
		ReadTimeout:  time.Duration(p.Conf.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(p.Conf.WriteTimeout) * time.Second,
		Handler:      p.Conf.Handler()}
	return nil
}

// Start 启动Http服务,开始端口监听和服务处理
func (p *Service) Start() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		c.Errorf("Http service has not been inited")
		return false
	}

	ln, err := net.Listen("tcp", p.Conf.Addr)
	if err != nil {
		c.Errorf("Listen at %s fail,error:%v", p.Conf.Addr, err)
		return false
	}
	c.Infow("Listen", "addr", ln.Addr().String(), "max_conns", p.Conf.MaxConns)

	tcpListener := tcpKeepAliveListener{ln.(*net.TCPListener)}
	if p.Conf.MaxConns > 0 {
		p.listener = netutil.LimitListener(tcpListener, p.Conf.MaxConns)
	} else {
		p.listener = tcpListener
	}

	serving := make(chan struct{})
	p.serving = serving
	server, listener := p.server, p.listener
	go func() {
		defer close(serving)
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			c.Errorf("server.Serve return with %v", err)
		}
	}()
	return true
}

// Addr 实际的监听地址,未启动时返回nil
func (p *Service) Addr() net.Addr {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Stop 停止Http服务,关闭端口监听,在ShutdownTimeout内等待正在处理的请求结束,超时后强制关闭连接
func (p *Service) Stop() bool {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.server == nil {
		return true
	}

	c.Infof("Waiting shutdown")
	timeout := DefaultShutdownTimeout
	if p.Conf != nil && p.Conf.ShutdownTimeout > 0 {
		timeout = p.Conf.ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		c.Warnf("Shutdown server error:%v,force close", err)
		if err := p.server.Close(); err != nil {
			c.Warnf("Close server error:%v", err)
		}
	}
	if p.serving != nil {
		<-p.serving
	}
	c.Infof("Finish shutdown")

	p.listener = nil
	p.serving = nil
	p.server = nil
	return true
}
