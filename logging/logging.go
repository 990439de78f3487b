/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package logging

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Log source tags used in structured logger contexts.
const (
	SourceApp        = "app"
	SourceWeb        = "web"
	SourceWebRequest = "web_request"
	SourceDB         = "db"
	SourceAnalysis   = "analysis"
	SourceRecommend  = "recommend"
)

var (
	initOnce   sync.Once
	baseLogger *log.Logger

	// Child loggers copy their level when created, so SetLevel updates each
	// one it has handed out.
	mu      sync.Mutex
	level   = log.DebugLevel
	sources []*log.Logger
)

// Init configures the base logger and stdlib log output.
func Init() {
	initOnce.Do(func() {
		baseLogger = log.NewWithOptions(os.Stdout, log.Options{
			TimeFunction:    log.NowUTC,
			TimeFormat:      time.RFC3339Nano,
			Level:           level,
			ReportTimestamp: true,
			Formatter:       log.LogfmtFormatter,
		})

		stdLogger := baseLogger.With("source", SourceApp).StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})

		stdlog.SetFlags(0)
		stdlog.SetOutput(stdLogger.Writer())
	})
}

// Logger returns a logfmt logger tagged with the provided source.
func Logger(source string) *log.Logger {
	Init()

	mu.Lock()
	defer mu.Unlock()

	l := baseLogger.With("source", source)
	l.SetLevel(level)
	sources = append(sources, l)

	return l
}

// SetLevel parses name (debug, info, warn, error, fatal) and applies it to
// the base logger and every source logger.
func SetLevel(name string) error {
	parsed, err := log.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", name, err)
	}

	Init()

	mu.Lock()
	defer mu.Unlock()

	level = parsed
	baseLogger.SetLevel(parsed)

	for _, l := range sources {
		l.SetLevel(parsed)
	}

	return nil
}

// StdLogger returns a stdlib logger that writes logfmt output with a source.
func StdLogger(source string) *stdlog.Logger {
	Init()
	return baseLogger.With("source", source).StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel})
}
