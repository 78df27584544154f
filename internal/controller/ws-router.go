package controller

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw())
	mux.Use(c.loggerWSMw())
	mux.HandleError(c.handleWSError)

	wsrouter.AddRoute(mux, "GET_STATE", c.handleGetState)
	wsrouter.AddRoute(mux, "SEEK", c.handleSeek)
	wsrouter.AddRoute(mux, "SKIP_FORWARD", c.handleSkipForward)
	wsrouter.AddRoute(mux, "SKIP_BACKWARD", c.handleSkipBackward)
	wsrouter.AddRoute(mux, "PLAY_PAUSE", c.handlePlayPause)
	wsrouter.AddRoute(mux, "SET_VOLUME", c.handleSetVolume)
	wsrouter.AddRoute(mux, "MUTE", c.handleMute)
	wsrouter.AddRoute(mux, "UNMUTE", c.handleUnmute)
	wsrouter.AddRoute(mux, "LOAD_VIDEO", c.handleLoadVideo)

	return mux
}

func (c controller) handleWSError(ctx context.Context, conn *websocket.Conn, err error) {
	c.logger.InfoContext(ctx, "websocket message failed", "error", err)

	code := "INTERNAL"
	var verr validationError
	switch {
	case errors.As(err, &verr):
		code = "VALIDATION"
	case errors.Is(err, wsrouter.ErrUnknownMessageType):
		code = "UNKNOWN_MESSAGE_TYPE"
	case isNotFound(err):
		code = "NOT_FOUND"
	}

	if err := c.writeToConn(ctx, conn, &Output{
		Type: "ERROR",
		Payload: map[string]any{
			"code":    code,
			"message": err.Error(),
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to write error", "error", err)
	}
}
