package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	enabled = true // flip to false to nuke logs
	sugar   = newSugar()
)

func newSugar() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

func EnableLogging(b bool) {
	enabled = b
}

func Info(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	sugar.Infof(msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled {
		return
	}
	sugar.Errorf(msg, v...)
}
