package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/inkwell-hq/inkwell/internal/events"
)

// Entry is one line of the audit log.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"kind"`
	PostID    string    `json:"post_id"`
	Title     string    `json:"title"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
}

// Logger appends post events to day-partitioned files under dir
// (events-YYYY-MM-DD.log). The file rolls when the date changes.
type Logger struct {
	dir  string
	mu   sync.Mutex
	file *os.File
	day  string
}

func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &Logger{dir: dir}, nil
}

// Record appends one entry for ev to today's log file.
func (l *Logger) Record(ev events.PostEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := ev.OccurredAt
	if ts.IsZero() {
		ts = time.Now()
	}

	if err := l.rotate(ts); err != nil {
		return err
	}

	entry := Entry{
		Timestamp: ts,
		Kind:      string(ev.Kind),
		PostID:    ev.PostID.String(),
		Title:     ev.Title,
		AuthorID:  ev.AuthorID.String(),
		Author:    ev.AuthorUsername,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if _, err := l.file.WriteString(string(data) + "\n"); err != nil {
		return err
	}

	return l.file.Sync()
}

// rotate opens the file for the day of ts, closing the previous one when
// the date changed. Caller must hold the lock.
func (l *Logger) rotate(ts time.Time) error {
	day := ts.Format("2006-01-02")
	if l.file != nil && day == l.day {
		return nil
	}

	if l.file != nil {
		_ = l.file.Close()
	}

	path := filepath.Join(l.dir, "events-"+day+".log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	l.file = file
	l.day = day
	return nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
