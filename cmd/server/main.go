package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sharetube/playerctl/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	allowedOrigins = configVar[[]string]{
		envKey:       "SERVER_ALLOWED_ORIGINS",
		flagKey:      "allowed-origins",
		defaultValue: []string{"https://www.youtube.com", "https://www.youtube-nocookie.com"},
	}
	bridgeOrigins = configVar[[]string]{
		envKey:       "SERVER_BRIDGE_ORIGINS",
		flagKey:      "bridge-origins",
		defaultValue: []string{"*"},
	}
	controlOrigins = configVar[[]string]{
		envKey:       "SERVER_CONTROL_ORIGINS",
		flagKey:      "control-origins",
		defaultValue: []string{},
	}
	pollInterval = configVar[time.Duration]{
		envKey:       "SERVER_POLL_INTERVAL",
		flagKey:      "poll-interval",
		defaultValue: time.Second,
	}
	skipOffset = configVar[float64]{
		envKey:       "SERVER_SKIP_OFFSET",
		flagKey:      "skip-offset",
		defaultValue: 10,
	}
	durationThreshold = configVar[float64]{
		envKey:       "SERVER_DURATION_THRESHOLD",
		flagKey:      "duration-threshold",
		defaultValue: 1000,
	}
	sessionTTL = configVar[time.Duration]{
		envKey:       "SERVER_SESSION_TTL",
		flagKey:      "session-ttl",
		defaultValue: 24 * time.Hour,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func bind[T any](v configVar[T]) {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

// getList reads a list that may come from a comma-separated env value,
// which viper would otherwise split on whitespace only.
func getList(key string) []string {
	return splitList(viper.GetStringSlice(key))
}

func splitList(values []string) []string {
	list := make([]string, 0, len(values))
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				list = append(list, item)
			}
		}
	}

	return list
}

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.StringSlice(allowedOrigins.flagKey, allowedOrigins.defaultValue, "Origins trusted to post player messages")
	pflag.StringSlice(bridgeOrigins.flagKey, bridgeOrigins.defaultValue, "Page origins allowed to connect a frame bridge, * for any")
	pflag.StringSlice(controlOrigins.flagKey, controlOrigins.defaultValue, "Page origins allowed to connect a controller, empty for same host")
	pflag.Duration(pollInterval.flagKey, pollInterval.defaultValue, "Interval between current time polls")
	pflag.Float64(skipOffset.flagKey, skipOffset.defaultValue, "Seconds skipped by skip forward and backward")
	pflag.Float64(durationThreshold.flagKey, durationThreshold.defaultValue, "Bare info values above it are read as duration")
	pflag.Duration(sessionTTL.flagKey, sessionTTL.defaultValue, "Lifetime of a mirrored session without updates")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	bind(port)
	bind(host)
	bind(logLevel)
	bind(allowedOrigins)
	bind(bridgeOrigins)
	bind(controlOrigins)
	bind(pollInterval)
	bind(skipOffset)
	bind(durationThreshold)
	bind(sessionTTL)
	bind(redisPort)
	bind(redisHost)
	bind(redisPassword)

	config := &app.AppConfig{
		Host:              viper.GetString(host.flagKey),
		Port:              viper.GetInt(port.flagKey),
		LogLevel:          viper.GetString(logLevel.flagKey),
		AllowedOrigins:    getList(allowedOrigins.flagKey),
		BridgeOrigins:     getList(bridgeOrigins.flagKey),
		ControlOrigins:    getList(controlOrigins.flagKey),
		PollInterval:      viper.GetDuration(pollInterval.flagKey),
		SkipOffset:        viper.GetFloat64(skipOffset.flagKey),
		DurationThreshold: viper.GetFloat64(durationThreshold.flagKey),
		SessionTTL:        viper.GetDuration(sessionTTL.flagKey),
		RedisPort:         viper.GetInt(redisPort.flagKey),
		RedisHost:         viper.GetString(redisHost.flagKey),
		RedisPassword:     viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	if err := app.Run(ctx, appConfig); err != nil {
		log.Fatal(err)
	}
}
