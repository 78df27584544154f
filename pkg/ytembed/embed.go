package ytembed

import (
	"net/url"
)

const (
	EmbedHost         = "https://www.youtube.com"
	NoCookieEmbedHost = "https://www.youtube-nocookie.com"
)

// EmbedURL returns the iframe source for a video with the JS API enabled so
// the player posts messages back to origin.
func EmbedURL(videoID, origin string, noCookie bool) string {
	host := EmbedHost
	if noCookie {
		host = NoCookieEmbedHost
	}

	query := url.Values{}
	query.Set("enablejsapi", "1")
	if origin != "" {
		query.Set("origin", origin)
	}

	return host + "/embed/" + url.PathEscape(videoID) + "?" + query.Encode()
}
