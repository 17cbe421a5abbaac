// Copyright (c) Microsoft Corporation.
// Licensed under the MIT license.

package slog

import (
	"context"
	"log/slog"
)

type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

type Logger = slog.Logger

// New returns slogLogger, or slog.Default() if slogLogger is nil.
func New(slogLogger *slog.Logger) *Logger {
	if slogLogger == nil {
		return slog.Default()
	}
	return slogLogger
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// Field creates a slog field for any value
func Field(key string, value any) any {
	return slog.Any(key, value)
}
