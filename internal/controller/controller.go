package controller

import (
	"context"
	"log/slog"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/player"
	"github.com/sharetube/playerctl/internal/service/session"
	"github.com/sharetube/playerctl/pkg/msgchannel"
	"github.com/sharetube/playerctl/pkg/validator"
	"github.com/sharetube/playerctl/pkg/wsrouter"
	"github.com/sharetube/playerctl/pkg/ytembed"
)

type iSessionService interface {
	ConnectFrame(context.Context, *session.ConnectFrameParams) (session.ConnectFrameResponse, error)
	DisconnectFrame(context.Context, string) error
	LoadVideo(context.Context, *session.LoadVideoParams) (player.Snapshot, error)
	Seek(context.Context, *session.SeekParams) (player.Snapshot, error)
	SkipForward(context.Context, string) (player.Snapshot, error)
	SkipBackward(context.Context, string) (player.Snapshot, error)
	PlayPause(context.Context, string) (player.Snapshot, error)
	SetVolume(context.Context, *session.SetVolumeParams) error
	Mute(context.Context, string) error
	Unmute(context.Context, string) error
	GetState(context.Context, string) (session.State, error)
	GetSessions(context.Context) ([]session.Session, error)
}

type iBus interface {
	Publish(context.Context, msgchannel.Message)
}

type iVideoFetcher interface {
	Get(context.Context, string) (*ytembed.VideoData, error)
}

type Config struct {
	// Page origins allowed to open a frame bridge. "*" allows any.
	BridgeOrigins []string
	// Page origins allowed to open a control connection. Empty allows only
	// requests without Origin or from the server's own host.
	ControlOrigins []string
}

type controller struct {
	sessionService  iSessionService
	bus             iBus
	fetcher         iVideoFetcher
	frameUpgrader   websocket.Upgrader
	controlUpgrader websocket.Upgrader
	validate        *validator.Validator
	wsmux          *wsrouter.WSRouter
	logger         *slog.Logger
}

func NewController(sessionService iSessionService, bus iBus, fetcher iVideoFetcher, cfg *Config, logger *slog.Logger) *controller {
	c := &controller{
		sessionService:  sessionService,
		bus:             bus,
		fetcher:         fetcher,
		frameUpgrader:   websocket.Upgrader{CheckOrigin: originChecker(cfg.BridgeOrigins)},
		controlUpgrader: websocket.Upgrader{CheckOrigin: originChecker(cfg.ControlOrigins)},
		validate:        validator.NewValidator(),
		logger:          logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
