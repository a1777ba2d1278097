/*
	Copyright (C) CESS. All rights reserved.
	Copyright (C) Cumulus Encrypted Storage System. All rights reserved.

	SPDX-License-Identifier: Apache-2.0
*/

package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Log(string, string)
	Pnc(msg string)
	Logget(string, string)
	Logput(string, string)
	Logdel(string, string)
	Logiter(string, string)
	Loghttp(string, string)
}

// log file
var (
	LogFiles = []string{
		"log",    // general log
		"panic",  // panic log
		"get",    // read path log
		"put",    // write path log
		"delete", // delete and clear log
		"iter",   // iteration log
		"http",   // http access log
	}
)

type logs struct {
	logpath map[string]string
	loggers map[string]*zap.SugaredLogger
}

func NewLogs(logfiles map[string]string) (Logger, error) {
	l := &logs{
		logpath: make(map[string]string, len(logfiles)),
		loggers: make(map[string]*zap.SugaredLogger, len(logfiles)),
	}
	for name, fpath := range logfiles {
		dir := getFilePath(fpath)
		_, err := os.Stat(dir)
		if err != nil {
			err = os.MkdirAll(dir, 0755)
			if err != nil {
				return nil, errors.Errorf("%v,%v", dir, err)
			}
		}
		newCore := zapcore.NewTee(
			zapcore.NewCore(getEncoder(), getWriteSyncer(fpath), zap.NewAtomicLevel()),
		)
		l.logpath[name] = fpath
		l.loggers[name] = zap.New(newCore, zap.AddCaller()).Sugar()
		l.loggers[name].Infof("%v", fpath)
	}
	return l, nil
}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &logs{}
}

func (l *logs) write(name, level, msg string) {
	lg, ok := l.loggers[name]
	if !ok {
		return
	}
	_, file, line, _ := runtime.Caller(2)
	switch level {
	case "info":
		lg.Infof("[%v:%d] %v", filepath.Base(file), line, msg)
	case "err":
		lg.Errorf("[%v:%d] %v", filepath.Base(file), line, msg)
	}
}

func (l *logs) Log(level string, msg string) {
	l.write("log", level, msg)
}

func (l *logs) Pnc(msg string) {
	l.write("panic", "err", msg)
}

func (l *logs) Logget(level string, msg string) {
	l.write("get", level, msg)
}

func (l *logs) Logput(level string, msg string) {
	l.write("put", level, msg)
}

func (l *logs) Logdel(level string, msg string) {
	l.write("delete", level, msg)
}

func (l *logs) Logiter(level string, msg string) {
	l.write("iter", level, msg)
}

func (l *logs) Loghttp(level string, msg string) {
	l.write("http", level, msg)
}

func getFilePath(fpath string) string {
	path, _ := filepath.Abs(fpath)
	index := strings.LastIndex(path, string(os.PathSeparator))
	ret := path[:index]
	return ret
}

func getEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(
		zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller_line",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    cEncodeLevel,
			EncodeTime:     cEncodeTime,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   nil,
		})
}

func getWriteSyncer(fpath string) zapcore.WriteSyncer {
	lumberJackLogger := &lumberjack.Logger{
		Filename:   fpath,
		MaxSize:    5,
		MaxBackups: 10,
		MaxAge:     30,
		LocalTime:  true,
		Compress:   true,
	}
	return zapcore.AddSync(lumberJackLogger)
}

func cEncodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + level.CapitalString() + "]")
}

func cEncodeTime(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + t.Format("2006-01-02 15:04:05") + "]")
}
