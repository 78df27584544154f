package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/repository/frame"
	"github.com/sharetube/playerctl/internal/repository/session"
	"github.com/sharetube/playerctl/pkg/msgchannel"
)

var (
	ErrFrameNotFound = errors.New("frame not found")
	ErrFrameInUse    = errors.New("frame already connected")
)

type iSessionRepo interface {
	SetSession(context.Context, *session.SetSessionParams) error
	UpdateSnapshot(context.Context, *session.UpdateSnapshotParams) error
	GetSessions(context.Context) ([]session.Session, error)
	RemoveSession(context.Context, string) error
}

type iFrameRepo interface {
	Add(*websocket.Conn, string) (*frame.Frame, error)
	Remove(string) error
	FrameIDs() []string
}

type iGenerator interface {
	NewID() string
}

type Config struct {
	PollInterval      time.Duration
	SkipOffset        float64
	DurationThreshold float64
	// Timeout of a single snapshot mirror write.
	MirrorTimeout time.Duration
}

// attachment is one control client bound to one frame.
type attachment struct {
	frame     *frame.Frame
	token     string
	sessionID string
	channel   *msgchannel.Channel
	client    *player.Client
}

type service struct {
	bus         *msgchannel.Bus
	sessionRepo iSessionRepo
	frameRepo   iFrameRepo
	generator   iGenerator
	cfg         Config
	logger      *slog.Logger

	mu          sync.Mutex
	attachments map[string]*attachment
}

func NewService(bus *msgchannel.Bus, sessionRepo iSessionRepo, frameRepo iFrameRepo, cfg *Config, logger *slog.Logger) *service {
	s := service{
		bus:         bus,
		sessionRepo: sessionRepo,
		frameRepo:   frameRepo,
		generator:   uuidGenerator{},
		cfg:         *cfg,
		logger:      logger,
		attachments: make(map[string]*attachment),
	}
	if s.cfg.MirrorTimeout <= 0 {
		s.cfg.MirrorTimeout = 2 * time.Second
	}

	return &s
}
