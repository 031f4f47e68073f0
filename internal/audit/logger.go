// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/ttylock/internal/lock"
	"github.com/jeranaias/ttylock/internal/util"
)

// =============================================================================
// EVENTS
// =============================================================================

// Event types written by the lock.
const (
	EventLockStart   = "LOCK_START"
	EventAuthFailure = "AUTH_FAILURE"
	EventAuthSuccess = "AUTH_SUCCESS"
	EventUnlock      = "UNLOCK"
)

// Event is a single audit record.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SessionID string            `json:"session_id"`
	User      string            `json:"user"`
	Service   string            `json:"service,omitempty"`
	Attempt   int               `json:"attempt,omitempty"`
	Success   bool              `json:"success"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// record is the on-disk line: the event plus its chain MAC.
type record struct {
	Event
	Prev string `json:"prev"`
	MAC  string `json:"mac"`
}

// DefaultPath returns ~/.ttylock/audit.log.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ttylock", "audit.log")
}

// computeMAC returns hex(HMAC-SHA256(key, prev || json(event))).
func computeMAC(key []byte, prev string, ev Event) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal audit event: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(prev))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger appends chained records to an audit file.
type Logger struct {
	path      string
	file      *os.File
	key       []byte
	prev      string
	sessionID string
	now       func() time.Time
	mu        sync.Mutex
}

// NewLogger opens (or creates) the audit file at path and continues the
// chain from its last record.
func NewLogger(path string, key []byte) (*Logger, error) {
	if len(key) == 0 {
		return nil, errors.New("audit key must not be empty")
	}
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}

	prev, err := lastMAC(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log file: %w", err)
	}

	return &Logger{
		path:      path,
		file:      file,
		key:       append([]byte(nil), key...),
		prev:      prev,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}, nil
}

// lastMAC reads the MAC of the final record, or "" for a new file.
func lastMAC(path string) (string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read audit log: %w", err)
	}
	defer f.Close()

	var last string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Bytes(); len(line) > 0 {
			last = string(line)
		}
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("failed to read audit log: %w", err)
	}
	if last == "" {
		return "", nil
	}

	var rec record
	if err := json.Unmarshal([]byte(last), &rec); err != nil {
		return "", fmt.Errorf("audit log %s ends with a malformed record: %w", path, err)
	}
	return rec.MAC, nil
}

// SessionID identifies this lock session in every record.
func (l *Logger) SessionID() string { return l.sessionID }

// Path returns the audit file path.
func (l *Logger) Path() string { return l.path }

// Log stamps, chains and appends ev. The line is synced before returning.
func (l *Logger) Log(ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return errors.New("audit logger is closed")
	}

	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now().UTC()
	}
	ev.SessionID = l.sessionID

	mac, err := computeMAC(l.key, l.prev, ev)
	if err != nil {
		return err
	}
	line, err := json.Marshal(record{Event: ev, Prev: l.prev, MAC: mac})
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}
	l.prev = mac
	return nil
}

// LogLockStart records that the terminal was locked.
func (l *Logger) LogLockStart(user, service, backend string) error {
	return l.Log(Event{
		EventType: EventLockStart,
		User:      user,
		Service:   service,
		Success:   true,
		Metadata:  map[string]string{"backend": backend},
	})
}

// LogAttempt records the outcome of one submit.
func (l *Logger) LogAttempt(user string, a lock.Attempt) error {
	eventType := EventAuthFailure
	if a.Accepted {
		eventType = EventAuthSuccess
	}
	return l.Log(Event{
		Timestamp: a.At.UTC(),
		EventType: eventType,
		User:      user,
		Attempt:   a.Number,
		Success:   a.Accepted,
	})
}

// LogUnlock records that the lock ended.
func (l *Logger) LogUnlock(user string, failed uint) error {
	return l.Log(Event{
		EventType: EventUnlock,
		User:      user,
		Success:   true,
		Metadata:  map[string]string{"failed_attempts": strconv.FormatUint(uint64(failed), 10)},
	})
}

// Close flushes and closes the file and wipes the key.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	util.Wipe(l.key)
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
