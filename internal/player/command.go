package player

const (
	commandEvent = "command"
	// reloadEvent asks the frame bridge to recreate the player iframe. The
	// new player posts onReady again, which loadVideoById alone never does.
	reloadEvent = "reload"
)

// Player API functions understood by the remote player.
const (
	FuncPlayVideo      = "playVideo"
	FuncPauseVideo     = "pauseVideo"
	FuncSeekTo         = "seekTo"
	FuncSetVolume      = "setVolume"
	FuncMute           = "mute"
	FuncUnMute         = "unMute"
	FuncGetCurrentTime = "getCurrentTime"
	FuncGetDuration    = "getDuration"
	FuncGetPlayerState = "getPlayerState"
	FuncLoadVideoById  = "loadVideoById"
)

type Command struct {
	Event string `json:"event"`
	Func  string `json:"func"`
	Args  []any  `json:"args"`
}

// Encode builds the wire form of a player call. fn is not checked against the
// known functions; the remote player ignores what it does not implement.
func Encode(fn string, args ...any) Command {
	if args == nil {
		args = []any{}
	}

	return Command{
		Event: commandEvent,
		Func:  fn,
		Args:  args,
	}
}

// EncodeReload builds the bridge command that replaces the player with a
// fresh one playing videoID.
func EncodeReload(videoID string) Command {
	return Command{
		Event: reloadEvent,
		Func:  FuncLoadVideoById,
		Args:  []any{videoID},
	}
}
