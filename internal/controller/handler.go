package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/service/session"
	"github.com/sharetube/playerctl/pkg/ctxlogger"
	"github.com/sharetube/playerctl/pkg/msgchannel"
	"github.com/sharetube/playerctl/pkg/rest"
)

const closeFrameInUse = 4009

type connectFrameParams struct {
	FrameID string `json:"frame_id" validate:"required,max=64"`
	VideoID string `json:"video_id" validate:"required,max=64"`
}

// connectFrame serves the bridge living next to an embedded player. Every
// envelope it forwards is published on the bus under the envelope origin.
func (c controller) connectFrame(w http.ResponseWriter, r *http.Request) {
	params := connectFrameParams{
		FrameID: chi.URLParam(r, "frame-id"),
		VideoID: r.URL.Query().Get("video-id"),
	}
	if validationErrors, ok := c.validate.Validate(params); !ok {
		c.logger.InfoContext(r.Context(), "invalid frame params", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("frame_id", params.FrameID))

	conn, err := c.frameUpgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	resp, err := c.sessionService.ConnectFrame(ctx, &session.ConnectFrameParams{
		Conn:    conn,
		FrameID: params.FrameID,
		VideoID: params.VideoID,
	})
	if err != nil {
		c.logger.InfoContext(ctx, "failed to connect frame", "error", err)
		code := websocket.CloseInternalServerErr
		if errors.Is(err, session.ErrFrameInUse) {
			code = closeFrameInUse
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()))
		return
	}
	defer func() {
		if err := c.sessionService.DisconnectFrame(context.WithoutCancel(ctx), params.FrameID); err != nil && !errors.Is(err, session.ErrFrameNotFound) {
			c.logger.WarnContext(ctx, "failed to disconnect frame", "error", err)
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.logger.DebugContext(ctx, "frame connection closed", "error", err)
			return
		}

		var envelope frameEnvelope
		if err := json.Unmarshal(data, &envelope); err != nil {
			c.logger.DebugContext(ctx, "malformed frame envelope discarded", "error", err)
			continue
		}

		c.bus.Publish(ctx, msgchannel.Message{
			Origin: envelope.Origin,
			Token:  resp.Token,
			Data:   envelope.payload(),
		})
	}
}

func (c controller) connectControl(w http.ResponseWriter, r *http.Request) {
	frameID := chi.URLParam(r, "frame-id")
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("frame_id", frameID))

	if _, err := c.sessionService.GetState(ctx, frameID); err != nil {
		c.logger.InfoContext(ctx, "control of unknown frame", "error", err)
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
		return
	}

	conn, err := c.controlUpgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx = context.WithValue(ctx, frameIDCtxKey, frameID)
	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "control connection closed", "error", err)
	}
}
