package store

import (
	"errors"
	"fmt"
)

// Kind 错误的类别
type Kind int

const (
	// Unknown 未分类的错误
	Unknown Kind = iota
	// NotFound 计数器不存在
	NotFound
	// AlreadyExists 计数器已经存在
	AlreadyExists
	// InvalidArgument 参数无效,如负数的计数器值
	InvalidArgument
	// InvalidName 计数器名称不符合[A-Za-z0-9_]+
	InvalidName
)

var kindNames = map[Kind]string{
	Unknown:         "Unknown",
	NotFound:        "NotFound",
	AlreadyExists:   "AlreadyExists",
	InvalidArgument: "InvalidArgument",
	InvalidName:     "InvalidName",
}

func (p Kind) String() string {
	return kindNames[p]
}

// Error is returned by every failing Store operation.
type Error struct {
	Kind Kind
	Msg  string
}

func (p *Error) Error() string {
	return p.Msg
}

// Is matches another *Error of the same Kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (p *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == p.Kind
}

// 用于errors.Is比较的哨兵错误
var (
	ErrNotFound        = &Error{Kind: NotFound, Msg: "not found"}
	ErrAlreadyExists   = &Error{Kind: AlreadyExists, Msg: "already exists"}
	ErrInvalidArgument = &Error{Kind: InvalidArgument, Msg: "invalid argument"}
	ErrInvalidName     = &Error{Kind: InvalidName, Msg: "invalid name"}
)

// NotFoundErrorf 创建NotFound错误
func NotFoundErrorf(format string, a ...interface{}) error {
	return &Error{Kind: NotFound, Msg: fmt.Sprintf(format, a...)}
}

// AlreadyExistsErrorf 创建AlreadyExists错误
func AlreadyExistsErrorf(format string, a ...interface{}) error {
	return &Error{Kind: AlreadyExists, Msg: fmt.Sprintf(format, a...)}
}

// InvalidArgumentErrorf 创建InvalidArgument错误
func InvalidArgumentErrorf(format string, a ...interface{}) error {
	return &Error{Kind: InvalidArgument, Msg: fmt.Sprintf(format, a...)}
}

// InvalidNameErrorf 创建InvalidName错误
func InvalidNameErrorf(format string, a ...interface{}) error {
	return &Error{Kind: InvalidName, Msg: fmt.Sprintf(format, a...)}
}

// IsNotFound err是否为NotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists err是否为AlreadyExists
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidArgument err是否为InvalidArgument
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidName err是否为InvalidName
func IsInvalidName(err error) bool {
	return errors.Is(err, ErrInvalidName)
}

// KindOf 取得err的类别,不是*Error时返回Unknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}
