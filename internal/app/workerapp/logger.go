package workerapp

import (
	"fmt"

	"go.uber.org/zap"
)

// asynqLogger adapts zap to the asynq.Logger interface.
type asynqLogger struct {
	log *zap.SugaredLogger
}

func newAsynqLogger(log *zap.Logger) *asynqLogger {
	return &asynqLogger{log: log.Sugar()}
}

func (l *asynqLogger) Debug(args ...interface{}) { l.log.Debug(args...) }
func (l *asynqLogger) Info(args ...interface{})  { l.log.Info(args...) }
func (l *asynqLogger) Warn(args ...interface{})  { l.log.Warn(args...) }
func (l *asynqLogger) Error(args ...interface{}) { l.log.Error(args...) }

// Fatal is logged at error level; asynq decides whether to stop.
func (l *asynqLogger) Fatal(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
