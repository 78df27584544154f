package controller

import "context"

type contextKey int

const (
	frameIDCtxKey contextKey = iota
)

func (c controller) getFrameIDFromCtx(ctx context.Context) string {
	frameID, ok := ctx.Value(frameIDCtxKey).(string)
	if !ok {
		return ""
	}

	return frameID
}
