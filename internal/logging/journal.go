package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is one recorded log entry.
type Event struct {
	Level   string        `json:"level"`
	Message string        `json:"message"`
	Time    time.Time     `json:"time"`
	Fields  logrus.Fields `json:"fields,omitempty"`
}

// Journal is a logrus hook that accumulates info, warning and error entries.
type Journal struct {
	mu     sync.Mutex
	events []Event
}

func NewJournal() *Journal {
	return &Journal{}
}

func (j *Journal) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel, logrus.InfoLevel}
}

func (j *Journal) Fire(entry *logrus.Entry) error {
	fields := make(logrus.Fields, len(entry.Data))
	for k, v := range entry.Data {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fields[k] = v
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.events = append(j.events, Event{
		Level:   entry.Level.String(),
		Message: entry.Message,
		Time:    entry.Time,
		Fields:  fields,
	})
	return nil
}

// Events returns a copy of everything recorded so far.
func (j *Journal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]Event(nil), j.events...)
}

// Warnings returns the warning events.
func (j *Journal) Warnings() []Event {
	var out []Event
	for _, e := range j.Events() {
		if e.Level == logrus.WarnLevel.String() {
			out = append(out, e)
		}
	}
	return out
}

// Lines renders the events as "[LEVEL] message" lines.
func (j *Journal) Lines() []string {
	events := j.Events()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		line := fmt.Sprintf("[%s] %s", strings.ToUpper(e.Level), e.Message)
		if err, ok := e.Fields[logrus.ErrorKey]; ok {
			line += fmt.Sprintf(": %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}
