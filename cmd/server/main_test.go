package main

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a", "https://b"}, splitList([]string{"https://a,https://b"}))
	assert.Equal(t, []string{"https://a", "https://b", "https://c"}, splitList([]string{"https://a, https://b", "https://c"}))
	assert.Empty(t, splitList([]string{"", " , "}))
}

func TestGetListFromEnv(t *testing.T) {
	t.Setenv("SERVER_ALLOWED_ORIGINS", "https://www.youtube.com,https://www.youtube-nocookie.com")
	viper.Reset()
	t.Cleanup(viper.Reset)

	bind(allowedOrigins)

	assert.Equal(t, []string{"https://www.youtube.com", "https://www.youtube-nocookie.com"}, getList(allowedOrigins.flagKey))
}
