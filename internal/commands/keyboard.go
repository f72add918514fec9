package commands

// keyboardMap is the shortcut table the shell forwards key names from.
var keyboardMap = map[string]Command{
	"space":     CmdTogglePlay,
	"left":      CmdSeekBack,
	"right":     CmdSeekForward,
	"up":        CmdVolumeUp,
	"down":      CmdVolumeDown,
	"f":         CmdFullscreen,
	"m":         CmdToggleMute,
	",":         CmdFrameBack,
	".":         CmdFrameForward,
	"s":         CmdCycleSpeed,
	"[":         CmdLoopStart,
	"]":         CmdLoopEnd,
	"\\":        CmdLoopClear,
	"b":         CmdAddBookmark,
	"n":         CmdQueueNext,
	"p":         CmdQueuePrevious,
	"escape":    CmdStop,
	"l":         CmdToggleLibrary,
	"semicolon": CmdToggleSettings,
}

// MapKey translates a key name into a command. The second return is
// false for unmapped keys.
func MapKey(key string) (Command, bool) {
	cmd, ok := keyboardMap[key]
	return cmd, ok
}
