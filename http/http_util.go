package http

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	c "github.com/d0ngw/counters/common"
	jsoniter "github.com/json-iterator/go"
)

// Content types
const (
	ContentTypeJSON    = "application/json; charset=utf-8"
	ContentTypeMsgPack = "application/msgpack"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrorResp 错误响应
type ErrorResp struct {
	Error string `json:"error" codec:"error"`
}

func pathValue(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(PathValue(r, name))
	if value == "" {
		return "", fmt.Errorf("missing param %s", name)
	}
	return value, nil
}

// GetInt64PathValue 取得由name指定的64位整数路径参数
func GetInt64PathValue(r *http.Request, name string) (val int64, err error) {
	value, err := pathValue(r, name)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// GetIntPathValue 取得由name指定的整数路径参数,超出int范围时返回错误
func GetIntPathValue(r *http.Request, name string) (val int, err error) {
	value, err := pathValue(r, name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// AcceptMsgPack 请求是否接受msgpack编码的响应
func AcceptMsgPack(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/msgpack") || strings.Contains(accept, "application/x-msgpack")
}

// RenderJSON 渲染JSON
func RenderJSON(w http.ResponseWriter, status int, jsonData interface{}) {
	data, err := jsonAPI.Marshal(jsonData)
	if err != nil {
		c.Errorf("encode json fail,err:%v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	w.Write(append(data, '\n'))
}

// RenderMsgPack 渲染msgpack
func RenderMsgPack(w http.ResponseWriter, status int, data interface{}) {
	bytes, err := c.MsgPackEncodeBytes(data)
	if err != nil {
		c.Errorf("encode msgpack fail,err:%v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", ContentTypeMsgPack)
	w.WriteHeader(status)
	w.Write(bytes)
}

// Render 根据请求的Accept选择msgpack或者JSON渲染data
func Render(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if r != nil && AcceptMsgPack(r) {
		RenderMsgPack(w, status, data)
		return
	}
	RenderJSON(w, status, data)
}

// RenderError 渲染{"error": msg}
func RenderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	Render(w, r, status, &ErrorResp{Error: msg})
}

// RenderNoContent 只写入状态码
func RenderNoContent(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// DoRequest 执行请求,返回状态码,响应头和响应内容;非2xx的状态码不作为错误返回
func DoRequest(client *http.Client, method, url string, header http.Header, body io.Reader) (status int, respHeader http.Header, respBody []byte, err error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, nil, err
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()
	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, respBody, nil
}

// GetURL 请求URL,状态码不是200时返回错误
func GetURL(client *http.Client, url string) (string, error) {
	status, _, body, err := DoRequest(client, http.MethodGet, url, nil, nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("Status:%d,msg:%s", status, http.StatusText(status))
	}
	return strings.TrimSpace(string(body)), nil
}
