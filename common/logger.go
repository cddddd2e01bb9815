package common

import (
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel 日志级别
type LogLevel int8

// 日志级别
const (
	Debug LogLevel = iota + 1
	Info
	Warn
	Error
)

var logLevelNames = map[string]LogLevel{
	"debug": Debug,
	"info":  Info,
	"warn":  Warn,
	"error": Error,
}

// ParseLogLevel 解析日志级别的名称,不区分大小写
func ParseLogLevel(name string) (LogLevel, bool) {
	level, ok := logLevelNames[strings.ToLower(strings.TrimSpace(name))]
	return level, ok
}

func (p LogLevel) zapLevel() (zapcore.Level, bool) {
	switch p {
	case Debug:
		return zapcore.DebugLevel, true
	case Info:
		return zapcore.InfoLevel, true
	case Warn:
		return zapcore.WarnLevel, true
	case Error:
		return zapcore.ErrorLevel, true
	}
	return zapcore.InfoLevel, false
}

// Logger 日志接口,*f按格式输出,Logw输出消息和键值对形式的字段
type Logger interface {
	Debugf(format string, params ...interface{})
	DebugEnabled() bool
	Infof(format string, params ...interface{})
	InfoEnabled() bool
	Warnf(format string, params ...interface{})
	WarnEnabled() bool
	Errorf(format string, params ...interface{})
	ErrorEnabled() bool
	Logw(level LogLevel, msg string, keysAndValues ...interface{})
	// With 返回带有固定字段的Logger,与原Logger共享日志级别
	With(keysAndValues ...interface{}) Logger
	SetLevel(level LogLevel)
	Sync()
}

// zapLogger 使用zap实现的Logger
type zapLogger struct {
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewLogger 按照config创建Logger,设置了file_name时输出到按大小滚动的文件,否则输出到stderr
func NewLogger(config *LogConfig) Logger {
	if config.FileName == "" {
		return NewWriterLogger(config, os.Stderr)
	}
	return NewWriterLogger(config, &lumberjack.Logger{
		Filename:   config.FileName,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		LocalTime:  true,
	})
}

// NewWriterLogger 创建输出到w的Logger,编码和日志级别由config决定
func NewWriterLogger(config *LogConfig, w io.Writer) Logger {
	encoderConf := zap.NewDevelopmentEncoderConfig()
	level := zapcore.DebugLevel
	if config.Env == EnvProduction {
		encoderConf = zap.NewProductionEncoderConfig()
		encoderConf.EncodeTime = zapcore.ISO8601TimeEncoder
		level = zapcore.InfoLevel
	}
	if l, ok := ParseLogLevel(config.Level); ok {
		level, _ = l.zapLevel()
	}

	atomic := zap.NewAtomicLevelAt(level)
	opts := []zap.Option{}
	if !config.NoCaller {
		// 跳过zapLogger和包级别的日志函数
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConf), zapcore.AddSync(w), atomic)
	return &zapLogger{level: atomic, sugar: zap.New(core, opts...).Sugar()}
}

func (p *zapLogger) Debugf(format string, params ...interface{}) { p.sugar.Debugf(format, params...) }
func (p *zapLogger) Infof(format string, params ...interface{}) { p.sugar.Infof(format, params...) }
func (p *zapLogger) Warnf(format string, params ...interface{}) { p.sugar.Warnf(format, params...) }
func (p *zapLogger) Errorf(format string, params ...interface{}) { p.sugar.Errorf(format, params...) }

func (p *zapLogger) DebugEnabled() bool { return p.level.Enabled(zapcore.DebugLevel) }
func (p *zapLogger) InfoEnabled() bool { return p.level.Enabled(zapcore.InfoLevel) }
func (p *zapLogger) WarnEnabled() bool { return p.level.Enabled(zapcore.WarnLevel) }
func (p *zapLogger) ErrorEnabled() bool { return p.level.Enabled(zapcore.ErrorLevel) }

func (p *zapLogger) Logw(level LogLevel, msg string, keysAndValues ...interface{}) {
	switch level {
	case Debug:
		p.sugar.Debugw(msg, keysAndValues...)
	case Warn:
		p.sugar.Warnw(msg, keysAndValues...)
	case Error:
		p.sugar.Errorw(msg, keysAndValues...)
	default:
		p.sugar.Infow(msg, keysAndValues...)
	}
}

func (p *zapLogger) With(keysAndValues ...interface{}) Logger {
	// 直接使用返回的Logger时少了包级别函数这一层调用
	sugar := p.sugar.With(keysAndValues...).Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar()
	return &zapLogger{level: p.level, sugar: sugar}
}

// SetLevel 无效的级别被忽略
func (p *zapLogger) SetLevel(level LogLevel) {
	if zapl, ok := level.zapLevel(); ok {
		p.level.SetLevel(zapl)
	}
}

func (p *zapLogger) Sync() {
	_ = p.sugar.Sync()
}

var (
	logger     = NewLogger(&LogConfig{})
	loggerLock sync.RWMutex
)

// GetLogger 当前的全局logger
func GetLogger() Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	return logger
}

// SetLogger 替换全局的logger
func SetLogger(l Logger) {
	if l == nil {
		return
	}
	loggerLock.Lock()
	pre := logger
	logger = l
	loggerLock.Unlock()
	pre.Sync()
}

func initLogger(config *LogConfig) error {
	SetLogger(NewLogger(config))
	return nil
}

// SetLogLevel 设置全局logger的日志级别,无效的级别被忽略
func SetLogLevel(level LogLevel) {
	GetLogger().SetLevel(level)
}

// Debugf debug
func Debugf(format string, params ...interface{}) {
	GetLogger().Debugf(format, params...)
}

// Infof info
func Infof(format string, params ...interface{}) {
	GetLogger().Infof(format, params...)
}

// Warnf warn
func Warnf(format string, params ...interface{}) {
	GetLogger().Warnf(format, params...)
}

// Errorf error
func Errorf(format string, params ...interface{}) {
	GetLogger().Errorf(format, params...)
}

// Logf 按照level记录日志
func Logf(level LogLevel, format string, params ...interface{}) {
	l := GetLogger()
	switch level {
	case Debug:
		l.Debugf(format, params...)
	case Warn:
		l.Warnf(format, params...)
	case Error:
		l.Errorf(format, params...)
	default:
		l.Infof(format, params...)
	}
}

// Debugw 输出debug级别的消息和字段
func Debugw(msg string, keysAndValues ...interface{}) {
	GetLogger().Logw(Debug, msg, keysAndValues...)
}

// Infow 输出info级别的消息和字段
func Infow(msg string, keysAndValues ...interface{}) {
	GetLogger().Logw(Info, msg, keysAndValues...)
}

// Warnw 输出warn级别的消息和字段
func Warnw(msg string, keysAndValues ...interface{}) {
	GetLogger().Logw(Warn, msg, keysAndValues...)
}

// Errorw 输出error级别的消息和字段
func Errorw(msg string, keysAndValues ...interface{}) {
	GetLogger().Logw(Error, msg, keysAndValues...)
}

// Logw 按照level输出消息和字段
func Logw(level LogLevel, msg string, keysAndValues ...interface{}) {
	GetLogger().Logw(level, msg, keysAndValues...)
}

// With 返回带有固定字段的全局logger的副本
func With(keysAndValues ...interface{}) Logger {
	return GetLogger().With(keysAndValues...)
}

// DebugEnabled is debug enabled
func DebugEnabled() bool {
	return GetLogger().DebugEnabled()
}

// InfoEnabled is info enabled
func InfoEnabled() bool {
	return GetLogger().InfoEnabled()
}

// WarnEnabled is warn enabled
func WarnEnabled() bool {
	return GetLogger().WarnEnabled()
}

// ErrorEnabled is error enabled
func ErrorEnabled() bool {
	return GetLogger().ErrorEnabled()
}

// SyncLog 刷新缓冲的日志
func SyncLog() {
	GetLogger().Sync()
}
