// Package client 计数器服务的Go客户端
package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	h "github.com/d0ngw/counters/http"
	"github.com/d0ngw/counters/store"
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Error 服务端返回的错误
type Error struct {
	Status int
	Msg    string
}

func (p *Error) Error() string {
	return fmt.Sprintf("status:%d,msg:%s", p.Status, p.Msg)
}

// StatusOf 取得err中的HTTP状态码,不是*Error时返回0
func StatusOf(err error) int {
	if e, ok := err.(*Error); ok {
		return e.Status
	}
	return 0
}

// Client 计数器服务的客户端
type Client struct {
	baseURL string
	client  *http.Client
}

// New 创建客户端,baseURL形如http://127.0.0.1:8080/counters
func New(baseURL string, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (p *Client) url(segments ...string) string {
	escaped := make([]string, 0, len(segments)+1)
	escaped = append(escaped, p.baseURL)
	for _, s := range segments {
		escaped = append(escaped, url.PathEscape(s))
	}
	return strings.Join(escaped, "/")
}

// call 执行请求,expect为期望的状态码,dest不为nil时解析响应
func (p *Client) call(method string, expect int, dest interface{}, segments ...string) error {
	status, _, body, err := h.DoRequest(p.client, method, p.url(segments...), nil, nil)
	if err != nil {
		return err
	}
	if status != expect {
		var resp h.ErrorResp
		if jsonAPI.Unmarshal(body, &resp) != nil || resp.Error == "" {
			resp.Error = http.StatusText(status)
		}
		return &Error{Status: status, Msg: resp.Error}
	}
	if dest == nil {
		return nil
	}
	return jsonAPI.Unmarshal(body, dest)
}

func (p *Client) value(method string, expect int, name string, segments ...string) (int64, error) {
	var resp map[string]int64
	if err := p.call(method, expect, &resp, segments...); err != nil {
		return 0, err
	}
	value, ok := resp[name]
	if !ok {
		return 0, fmt.Errorf("missing %s in response", name)
	}
	return value, nil
}

func (p *Client) counters(segments ...string) (store.Counters, error) {
	var counters store.Counters
	if err := p.call(http.MethodGet, http.StatusOK, &counters, segments...); err != nil {
		return nil, err
	}
	return counters, nil
}

// Create 创建计数器
func (p *Client) Create(name string) (int64, error) {
	return p.value(http.MethodPost, http.StatusCreated, name, name)
}

// Get 取得计数器的值
func (p *Client) Get(name string) (int64, error) {
	return p.value(http.MethodGet, http.StatusOK, name, name)
}

// Increment 计数器加1
func (p *Client) Increment(name string) (int64, error) {
	return p.value(http.MethodPut, http.StatusOK, name, name)
}

// Set 设置计数器的值
func (p *Client) Set(name string, value int64) (int64, error) {
	return p.value(http.MethodPut, http.StatusOK, name, name, "set", strconv.FormatInt(value, 10))
}

// Reset 将计数器置为0
func (p *Client) Reset(name string) (int64, error) {
	return p.value(http.MethodPost, http.StatusOK, name, name, "reset")
}

// Delete 删除计数器
func (p *Client) Delete(name string) error {
	return p.call(http.MethodDelete, http.StatusNoContent, nil, name)
}

// ResetAll 删除所有计数器
func (p *Client) ResetAll() error {
	return p.call(http.MethodPost, http.StatusOK, nil, "reset")
}

// List 所有计数器
func (p *Client) List() (store.Counters, error) {
	return p.counters()
}

// Total 所有计数器值之和
func (p *Client) Total() (int64, error) {
	return p.value(http.MethodGet, http.StatusOK, "total", "total")
}

// Count 计数器的个数
func (p *Client) Count() (int64, error) {
	return p.value(http.MethodGet, http.StatusOK, "count", "count")
}

// Top 值最大的n个计数器
func (p *Client) Top(n int) (store.Counters, error) {
	return p.counters("top", strconv.Itoa(n))
}

// Bottom 值最小的n个计数器
func (p *Client) Bottom(n int) (store.Counters, error) {
	return p.counters("bottom", strconv.Itoa(n))
}

// GreaterThan 值大于threshold的计数器
func (p *Client) GreaterThan(threshold int64) (store.Counters, error) {
	return p.counters("greater", strconv.FormatInt(threshold, 10))
}

// LessThan 值小于threshold的计数器
func (p *Client) LessThan(threshold int64) (store.Counters, error) {
	return p.counters("less", strconv.FormatInt(threshold, 10))
}
