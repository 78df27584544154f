package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sharetube/playerctl/internal/service/session"
	"github.com/sharetube/playerctl/pkg/validator"
	"golang.org/x/exp/slices"
)

const anyOrigin = "*"

// originChecker returns nil for an empty list, which makes the upgrader fall
// back to its same-host check.
func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}

	return func(r *http.Request) bool {
		if slices.Contains(allowed, anyOrigin) {
			return true
		}

		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}

// frameEnvelope is one postMessage event forwarded by the bridge. Origin is
// the event origin, i.e. the origin of the player iframe.
type frameEnvelope struct {
	Origin string          `json:"origin"`
	Data   json.RawMessage `json:"data"`
}

// payload unwraps string data, which is how the player posts its messages.
func (e frameEnvelope) payload() any {
	var text string
	if err := json.Unmarshal(e.Data, &text); err == nil {
		return text
	}

	return []byte(e.Data)
}

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type validationError struct {
	errs []validator.ValidationError
}

func (e validationError) Error() string {
	return validator.Error(e.errs).Error()
}

func (c controller) validateInput(input any) error {
	if errs, ok := c.validate.Validate(input); !ok {
		return validationError{errs: errs}
	}

	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, session.ErrFrameNotFound)
}

func (c controller) writeToConn(_ context.Context, conn *websocket.Conn, output *Output) error {
	if err := conn.WriteJSON(output); err != nil {
		return fmt.Errorf("failed to write to conn: %w", err)
	}

	return nil
}
