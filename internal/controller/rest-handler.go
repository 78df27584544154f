package controller

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/playerctl/pkg/rest"
	"github.com/sharetube/playerctl/pkg/ytembed"
)

func (c controller) getSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.sessionService.GetSessions(r.Context())
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to get sessions", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": sessions})
}

func (c controller) getSession(w http.ResponseWriter, r *http.Request) {
	state, err := c.sessionService.GetState(r.Context(), chi.URLParam(r, "frame-id"))
	if err != nil {
		if isNotFound(err) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
			return
		}
		c.logger.ErrorContext(r.Context(), "failed to get state", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": err.Error()})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": state})
}

type getEmbedParams struct {
	VideoID string `json:"video_id" validate:"required,max=64"`
	Origin  string `json:"origin" validate:"omitempty,url"`
}

type getEmbedResponse struct {
	EmbedURL string             `json:"embed_url"`
	Video    *ytembed.VideoData `json:"video"`
}

func (c controller) getEmbed(w http.ResponseWriter, r *http.Request) {
	params := getEmbedParams{
		VideoID: chi.URLParam(r, "video-id"),
		Origin:  r.URL.Query().Get("origin"),
	}
	if validationErrors, ok := c.validate.Validate(params); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	video, err := c.fetcher.Get(r.Context(), params.VideoID)
	if err != nil {
		if errors.Is(err, ytembed.ErrVideoNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": err.Error()})
			return
		}
		c.logger.WarnContext(r.Context(), "failed to get video data", "error", err)
		rest.WriteJSON(w, http.StatusBadGateway, rest.Envelope{"error": err.Error()})
		return
	}

	noCookie := r.URL.Query().Get("no-cookie") == "true"
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": getEmbedResponse{
		EmbedURL: ytembed.EmbedURL(params.VideoID, params.Origin, noCookie),
		Video:    video,
	}})
}
