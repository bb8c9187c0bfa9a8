package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventFetch    EventType = "fetch"
	EventEnrich   EventType = "enrich"
	EventFolder   EventType = "folder"
	EventInfo     EventType = "info"
	EventPlaylist EventType = "playlist"
	EventCopy     EventType = "copy"
	EventTag      EventType = "tag"
	EventImage    EventType = "image"
	EventSkip     EventType = "skip"
	EventConflict EventType = "conflict"
	EventError    EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event is one line of the JSONL event log
type Event struct {
	Timestamp    time.Time         `json:"ts"`
	Session      string            `json:"session"`
	Level        EventLevel        `json:"level"`
	Event        EventType         `json:"event"`
	ReleaseID    int               `json:"release_id,omitempty"`
	SrcPath      string            `json:"src_path,omitempty"`
	DestPath     string            `json:"dest_path,omitempty"`
	Action       string            `json:"action,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	BytesWritten int64             `json:"bytes_written,omitempty"`
	Duration     int64             `json:"duration_ms,omitempty"`
	Error        string            `json:"error,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file. A nil *EventLogger is a
// valid no-op logger.
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	session  string
	minLevel EventLevel
}

// NewEventLogger creates events-<timestamp>.jsonl in outputDir
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	path := filepath.Join(outputDir, fmt.Sprintf("events-%s.jsonl", timestamp))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		session:  uuid.NewString(),
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Session = l.session

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return nil
}

// LogFetch logs a release fetch
func (l *EventLogger) LogFetch(releaseID int, url string, duration time.Duration, err error) error {
	return l.Log(&Event{
		Level:     levelFor(err),
		Event:     EventFetch,
		ReleaseID: releaseID,
		SrcPath:   url,
		Duration:  duration.Milliseconds(),
		Error:     errString(err),
	})
}

// LogEnrich logs the outcome of artist enrichment for a release
func (l *EventLogger) LogEnrich(releaseID, lookups, misses int) error {
	level := LevelInfo
	if misses > 0 {
		level = LevelWarning
	}
	return l.Log(&Event{
		Level:     level,
		Event:     EventEnrich,
		ReleaseID: releaseID,
		Extra: map[string]string{
			"lookups": fmt.Sprintf("%d", lookups),
			"misses":  fmt.Sprintf("%d", misses),
		},
	})
}

// LogWrite logs a written export artifact: folder, info sheet, playlist or image
func (l *EventLogger) LogWrite(event EventType, destPath string, bytesWritten int64, err error) error {
	return l.Log(&Event{
		Level:        levelFor(err),
		Event:        event,
		DestPath:     destPath,
		Action:       "write",
		BytesWritten: bytesWritten,
		Error:        errString(err),
	})
}

// LogCopy logs an audio file copy
func (l *EventLogger) LogCopy(srcPath, destPath string, bytesWritten int64, duration time.Duration, err error) error {
	return l.Log(&Event{
		Level:        levelFor(err),
		Event:        EventCopy,
		SrcPath:      srcPath,
		DestPath:     destPath,
		Action:       "copy",
		BytesWritten: bytesWritten,
		Duration:     duration.Milliseconds(),
		Error:        errString(err),
	})
}

// LogTag logs a tag write
func (l *EventLogger) LogTag(destPath string, fields int, artwork bool, err error) error {
	return l.Log(&Event{
		Level:    levelFor(err),
		Event:    EventTag,
		DestPath: destPath,
		Action:   "tag",
		Error:    errString(err),
		Extra: map[string]string{
			"fields":  fmt.Sprintf("%d", fields),
			"artwork": fmt.Sprintf("%t", artwork),
		},
	})
}

// LogSkip logs a track left out of the export
func (l *EventLogger) LogSkip(destPath, reason string) error {
	return l.Log(&Event{
		Level:    LevelWarning,
		Event:    EventSkip,
		DestPath: destPath,
		Reason:   reason,
	})
}

// LogConflict logs a file conflict event
func (l *EventLogger) LogConflict(srcPath, destPath, reason string) error {
	return l.Log(&Event{
		Level:    LevelWarning,
		Event:    EventConflict,
		SrcPath:  srcPath,
		DestPath: destPath,
		Reason:   reason,
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, srcPath string, err error) error {
	return l.Log(&Event{
		Level:   LevelError,
		Event:   event,
		SrcPath: srcPath,
		Error:   errString(err),
	})
}

func levelFor(err error) EventLevel {
	if err != nil {
		return LevelError
	}
	return LevelInfo
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Session returns the session id stamped on every event
func (l *EventLogger) Session() string {
	if l == nil {
		return ""
	}
	return l.session
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
