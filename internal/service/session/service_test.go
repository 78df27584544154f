package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/repository/frame/inmemory"
	sessionRedis "github.com/sharetube/playerctl/internal/repository/session/redis"
	"github.com/sharetube/playerctl/pkg/msgchannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const origin = "https://www.youtube.com"

// connPair returns the server side of a websocket connection and the remote
// end that plays the frame bridge.
func connPair(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	remote, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { remote.Close() })

	server := <-serverConns
	t.Cleanup(func() { server.Close() })

	return server, remote
}

func readCommand(t *testing.T, conn *websocket.Conn, fn string) player.Command {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var cmd player.Command
		require.NoError(t, json.Unmarshal(data, &cmd))
		if cmd.Func == fn {
			return cmd
		}
	}
}

type testEnv struct {
	bus     *msgchannel.Bus
	service *service
	rc      *redis.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	bus := msgchannel.NewBus([]string{origin}, logger)
	s := NewService(bus,
		sessionRedis.NewRepo(rc, time.Minute, logger),
		inmemory.NewRepo(logger),
		&Config{PollInterval: 10 * time.Millisecond},
		logger,
	)
	t.Cleanup(func() { s.Close(context.Background()) })

	return &testEnv{bus: bus, service: s, rc: rc}
}

func (e *testEnv) publish(token, data string) {
	e.bus.Publish(context.Background(), msgchannel.Message{Origin: origin, Token: token, Data: data})
}

func TestFrameLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	server, remote := connPair(t)

	resp, err := env.service.ConnectFrame(ctx, &ConnectFrameParams{
		Conn:    server,
		FrameID: "main",
		VideoID: "abc",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	_, err = env.service.ConnectFrame(ctx, &ConnectFrameParams{Conn: server, FrameID: "main", VideoID: "abc"})
	assert.ErrorIs(t, err, ErrFrameInUse)

	env.publish(resp.Token, `{"event":"onReady"}`)
	readCommand(t, remote, player.FuncGetCurrentTime)

	env.publish(resp.Token, `{"event":"infoDelivery","info":{"currentTime":12,"duration":600}}`)
	require.Eventually(t, func() bool {
		sessions, err := env.service.GetSessions(ctx)
		return err == nil && len(sessions) == 1 && sessions[0].CurrentTime == 12 && sessions[0].Duration == 600
	}, time.Second, 5*time.Millisecond, "snapshot must be mirrored")

	snapshot, err := env.service.Seek(ctx, &SeekParams{FrameID: "main", Time: 700})
	require.NoError(t, err)
	assert.Equal(t, 600.0, snapshot.CurrentTime)
	seek := readCommand(t, remote, player.FuncSeekTo)
	assert.Equal(t, []any{600.0, true}, seek.Args)

	require.NoError(t, env.service.SetVolume(ctx, &SetVolumeParams{FrameID: "main", Volume: 20}))
	volume := readCommand(t, remote, player.FuncSetVolume)
	assert.Equal(t, []any{20.0}, volume.Args)

	state, err := env.service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "abc", state.VideoID)
	assert.True(t, state.Snapshot.IsReady)

	require.NoError(t, env.service.DisconnectFrame(ctx, "main"))
	assert.Equal(t, 0, env.bus.Listeners(resp.Token))
	assert.ErrorIs(t, env.service.DisconnectFrame(ctx, "main"), ErrFrameNotFound)

	_, err = env.service.GetState(ctx, "main")
	assert.ErrorIs(t, err, ErrFrameNotFound)
	_, err = env.service.PlayPause(ctx, "main")
	assert.ErrorIs(t, err, ErrFrameNotFound)

	sessions, err := env.service.GetSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestLoadVideoRebuildsClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	server, remote := connPair(t)

	resp, err := env.service.ConnectFrame(ctx, &ConnectFrameParams{Conn: server, FrameID: "main", VideoID: "abc"})
	require.NoError(t, err)

	env.publish(resp.Token, `{"event":"onReady"}`)
	env.publish(resp.Token, `{"event":"infoDelivery","info":{"currentTime":30,"duration":90}}`)
	_, err = env.service.PlayPause(ctx, "main")
	require.NoError(t, err)

	snapshot, err := env.service.LoadVideo(ctx, &LoadVideoParams{FrameID: "main", VideoID: "xyz"})
	require.NoError(t, err)
	assert.False(t, snapshot.IsReady)
	assert.False(t, snapshot.IsPlaying)
	assert.Equal(t, 0.0, snapshot.CurrentTime)
	assert.Equal(t, 0.0, snapshot.Duration)
	assert.Equal(t, 1, env.bus.Listeners(resp.Token), "the old listener must be gone")

	load := readCommand(t, remote, player.FuncLoadVideoById)
	assert.Equal(t, "reload", load.Event)
	assert.Equal(t, []any{"xyz"}, load.Args)

	sessions, err := env.service.GetSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "xyz", sessions[0].VideoID)
	assert.False(t, sessions[0].IsReady)

	env.publish(resp.Token, `{"event":"infoDelivery","info":{"currentTime":4}}`)
	state, err := env.service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "xyz", state.VideoID)
	assert.Equal(t, 4.0, state.Snapshot.CurrentTime)

	_, err = env.service.LoadVideo(ctx, &LoadVideoParams{FrameID: "other", VideoID: "xyz"})
	assert.ErrorIs(t, err, ErrFrameNotFound)
}

func TestLoadVideoResumesPollingOnReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	server, remote := connPair(t)

	resp, err := env.service.ConnectFrame(ctx, &ConnectFrameParams{Conn: server, FrameID: "main", VideoID: "abc"})
	require.NoError(t, err)
	env.publish(resp.Token, `{"event":"onReady"}`)
	readCommand(t, remote, player.FuncGetCurrentTime)

	_, err = env.service.LoadVideo(ctx, &LoadVideoParams{FrameID: "main", VideoID: "xyz"})
	require.NoError(t, err)
	readCommand(t, remote, player.FuncLoadVideoById)

	// the recreated player announces itself like the first one did
	env.publish(resp.Token, `{"event":"onReady"}`)

	state, err := env.service.GetState(ctx, "main")
	require.NoError(t, err)
	assert.True(t, state.Snapshot.IsReady)

	a, err := env.service.getAttachment("main")
	require.NoError(t, err)
	assert.NotNil(t, a.client.Player())

	poll := readCommand(t, remote, player.FuncGetCurrentTime)
	assert.Equal(t, "command", poll.Event)
}

func TestFramesDoNotShareMessages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	leftConn, _ := connPair(t)
	rightConn, _ := connPair(t)

	left, err := env.service.ConnectFrame(ctx, &ConnectFrameParams{Conn: leftConn, FrameID: "left", VideoID: "abc"})
	require.NoError(t, err)
	_, err = env.service.ConnectFrame(ctx, &ConnectFrameParams{Conn: rightConn, FrameID: "right", VideoID: "def"})
	require.NoError(t, err)

	env.publish(left.Token, `{"event":"infoDelivery","info":{"currentTime":50}}`)

	l, err := env.service.GetState(ctx, "left")
	require.NoError(t, err)
	r, err := env.service.GetState(ctx, "right")
	require.NoError(t, err)
	assert.Equal(t, 50.0, l.Snapshot.CurrentTime)
	assert.Equal(t, 0.0, r.Snapshot.CurrentTime)
}
