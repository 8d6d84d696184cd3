package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inkwell-hq/inkwell/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(kind events.Kind, occurred time.Time) events.PostEvent {
	return events.PostEvent{
		Kind:           kind,
		PostID:         uuid.New(),
		Title:          "Test Post",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
		OccurredAt:     occurred,
	}
}

func TestRecord_WritesDayPartitionedFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	require.NoError(t, err)
	defer logger.Close()

	occurred := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	ev := testEvent(events.PostCreated, occurred)

	require.NoError(t, logger.Record(ev))

	data, err := os.ReadFile(filepath.Join(dir, "events-2026-03-14.log"))
	require.NoError(t, err)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "post:created", entry.Kind)
	assert.Equal(t, ev.PostID.String(), entry.PostID)
	assert.Equal(t, "Test Post", entry.Title)
	assert.Equal(t, "alice", entry.Author)
}

func TestRecord_AppendsToSameDay(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	require.NoError(t, err)
	defer logger.Close()

	occurred := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, logger.Record(testEvent(events.PostCreated, occurred)))
	require.NoError(t, logger.Record(testEvent(events.PostDeleted, occurred.Add(time.Hour))))

	data, err := os.ReadFile(filepath.Join(dir, "events-2026-03-14.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
}

func TestRecord_RollsOnDateChange(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir)
	require.NoError(t, err)
	defer logger.Close()

	require.NoError(t, logger.Record(testEvent(events.PostCreated, time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC))))
	require.NoError(t, logger.Record(testEvent(events.PostUpdated, time.Date(2026, 3, 15, 0, 1, 0, 0, time.UTC))))

	assert.FileExists(t, filepath.Join(dir, "events-2026-03-14.log"))
	assert.FileExists(t, filepath.Join(dir, "events-2026-03-15.log"))
}

func TestNew_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "events")

	logger, err := New(dir)
	require.NoError(t, err)
	defer logger.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
