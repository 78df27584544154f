package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type volumeInput struct {
	Volume *int `json:"volume" validate:"required,gte=0,lte=100"`
}

type loadVideoInput struct {
	VideoID string `json:"video_id" validate:"required,len=11"`
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	volume := 50
	_, ok := v.Validate(volumeInput{Volume: &volume})
	assert.True(t, ok)

	volume = 101
	errs, ok := v.Validate(volumeInput{Volume: &volume})
	require.False(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, ValidationError{Field: "volume", Code: "LTE", Message: "volume must not exceed 100"}, errs[0])

	errs, ok = v.Validate(volumeInput{})
	require.False(t, ok)
	assert.Equal(t, "REQUIRED", errs[0].Code)

	errs, ok = v.Validate(loadVideoInput{VideoID: "short"})
	require.False(t, ok)
	assert.Equal(t, "video_id must be 11 characters long", errs[0].Message)
	assert.EqualError(t, Error(errs), "video_id must be 11 characters long")
}
