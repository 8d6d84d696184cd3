package events

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBus(t *testing.T) *RedisBus {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	bus, err := NewRedisBus(fmt.Sprintf("redis://%s", server.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { bus.Close() })

	return bus
}

func TestRedisBus_PublishSubscribeRoundTrip(t *testing.T) {
	bus := setupBus(t)

	ch, err := bus.Subscribe()
	require.NoError(t, err)

	sent := PostEvent{
		Kind:           PostCreated,
		PostID:         uuid.New(),
		Title:          "Hello World",
		Content:        "first post",
		Category:       "tech",
		AuthorID:       uuid.New(),
		AuthorUsername: "alice",
		OccurredAt:     time.Now().UTC(),
	}
	require.NoError(t, bus.Publish(sent))

	select {
	case got := <-ch:
		assert.Equal(t, sent.Kind, got.Kind)
		assert.Equal(t, sent.PostID, got.PostID)
		assert.Equal(t, sent.Title, got.Title)
		assert.Equal(t, sent.AuthorUsername, got.AuthorUsername)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestRedisBus_EventOrderPreserved(t *testing.T) {
	bus := setupBus(t)

	ch, err := bus.Subscribe()
	require.NoError(t, err)

	kinds := []Kind{PostCreated, PostUpdated, PostDeleted}
	for _, kind := range kinds {
		require.NoError(t, bus.Publish(PostEvent{Kind: kind, PostID: uuid.New()}))
	}

	for _, want := range kinds {
		select {
		case got := <-ch:
			assert.Equal(t, want, got.Kind)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}
