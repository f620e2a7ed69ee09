package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

// newLogger fans records out to the terminal (or the systemd journal when
// running as a service), and to an optional JSON log file.
func newLogger(level slog.Leveler, logFile io.Writer) *slog.Logger {
	var handlers []slog.Handler

	var terminalHandler slog.Handler
	if !isSystemdService() {
		terminalHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})
		handlers = append(handlers, terminalHandler)
	} else {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			terminalHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
			handlers = append(handlers, terminalHandler)
			record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
			record.Add("error", err)
			_ = terminalHandler.Handle(context.Background(), record)
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	if logFile != nil {
		handlers = append(handlers, slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: level,
		}))
	}

	return slog.New(slogmulti.Fanout(handlers...))
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
}

func isSystemdService() bool {
	content, err := os.ReadFile("/proc/self/cgroup")
	if err != nil {
		return false
	}

	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) < 3 {
		return false
	}

	return strings.HasSuffix(path.Dir(parts[2]), ".service")
}
