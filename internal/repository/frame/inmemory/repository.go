package inmemory

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/repository/frame"
	"golang.org/x/exp/maps"
)

type repo struct {
	frames map[string]*frame.Frame
	conns  map[*websocket.Conn]string
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		frames: make(map[string]*frame.Frame),
		conns:  make(map[*websocket.Conn]string),
		logger: logger,
	}
}

func (r *repo) Add(conn *websocket.Conn, frameID string) (*frame.Frame, error) {
	funcName := "frame.inmemory.Add"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "frame_id", frameID)
	if _, ok := r.frames[frameID]; ok {
		r.logger.Info(funcName, "error", frame.ErrAlreadyExists)
		return nil, frame.ErrAlreadyExists
	}
	if _, ok := r.conns[conn]; ok {
		r.logger.Info(funcName, "error", frame.ErrAlreadyExists)
		return nil, frame.ErrAlreadyExists
	}

	f := frame.New(frameID, conn)
	r.frames[frameID] = f
	r.conns[conn] = frameID

	return f, nil
}

// Remove forgets the frame. The connection itself is left to its owner.
func (r *repo) Remove(frameID string) error {
	funcName := "frame.inmemory.Remove"
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debug(funcName, "frame_id", frameID)
	f, ok := r.frames[frameID]
	if !ok {
		r.logger.Info(funcName, "error", frame.ErrNotFound)
		return frame.ErrNotFound
	}

	delete(r.conns, f.Conn())
	delete(r.frames, frameID)

	return nil
}

func (r *repo) Get(frameID string) (*frame.Frame, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.frames[frameID]
	if !ok {
		return nil, frame.ErrNotFound
	}

	return f, nil
}

func (r *repo) FrameIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.frames)
}
