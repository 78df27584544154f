package inmemory

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/repository/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepo(t *testing.T) {
	r := NewRepo(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c1, c2 := &websocket.Conn{}, &websocket.Conn{}

	f1, err := r.Add(c1, "left")
	require.NoError(t, err)
	assert.Equal(t, "left", f1.ID())

	_, err = r.Add(c2, "left")
	assert.ErrorIs(t, err, frame.ErrAlreadyExists)
	_, err = r.Add(c1, "right")
	assert.ErrorIs(t, err, frame.ErrAlreadyExists)

	_, err = r.Add(c2, "right")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"left", "right"}, r.FrameIDs())

	got, err := r.Get("left")
	require.NoError(t, err)
	assert.Same(t, f1, got)

	require.NoError(t, r.Remove("left"))
	assert.ErrorIs(t, r.Remove("left"), frame.ErrNotFound)
	_, err = r.Get("left")
	assert.ErrorIs(t, err, frame.ErrNotFound)

	_, err = r.Add(c1, "left")
	assert.NoError(t, err, "a removed connection can be added again")
}
