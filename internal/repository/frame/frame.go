package frame

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Frame is the write side of a frame bridge connection. gorilla/websocket
// allows one concurrent writer, so writes are serialized here.
type Frame struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func New(id string, conn *websocket.Conn) *Frame {
	return &Frame{id: id, conn: conn}
}

func (f *Frame) ID() string {
	return f.id
}

func (f *Frame) Conn() *websocket.Conn {
	return f.conn
}

func (f *Frame) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return f.conn.WriteMessage(websocket.TextMessage, data)
}
