package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
	"neuralplay/internal/timecode"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Load a media file as the active item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Load(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %s\n", resp.Player.Source.DisplayName)
				return nil
			})
		},
	}
}

func newTransportCommands(ctx *commandContext) []*cobra.Command {
	dispatch := func(use, short, command string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					return client.Command(command, "menu")
				})
			},
		}
	}

	playCmd := dispatch("play", "Start playback", "play")
	pauseCmd := dispatch("pause", "Pause playback", "pause")
	toggleCmd := dispatch("toggle", "Toggle play and pause", "toggle_play")
	stopCmd := dispatch("stop", "Stop playback and rewind", "stop")
	muteCmd := dispatch("mute", "Toggle mute", "toggle_mute")
	speedCmd := dispatch("speed", "Cycle to the next playback speed", "cycle_speed")

	seekCmd := &cobra.Command{
		Use:   "seek <seconds>",
		Short: "Seek to an absolute position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Seek(seconds)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Position %s\n", timecode.Clock(resp.Player.Position))
				return nil
			})
		},
	}

	skipCmd := &cobra.Command{
		Use:   "skip <delta>",
		Short: "Skip forward or back by a number of seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid delta %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Skip(delta)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Position %s\n", timecode.Clock(resp.Player.Position))
				return nil
			})
		},
	}

	rateCmd := &cobra.Command{
		Use:   "rate <multiplier>",
		Short: "Select a playback speed from the ladder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid rate %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SetRate(rate)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Speed %gx\n", resp.Player.Rate)
				return nil
			})
		},
	}

	volumeCmd := &cobra.Command{
		Use:   "volume <level|up|down>",
		Short: "Set or nudge the playback volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				switch args[0] {
				case "up":
					return client.Command("volume_up", "menu")
				case "down":
					return client.Command("volume_down", "menu")
				}
				level, err := strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("invalid volume %q", args[0])
				}
				resp, err := client.SetVolume(level)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Volume %.0f%%\n", resp.Player.Volume*100)
				return nil
			})
		},
	}

	frameCmd := &cobra.Command{
		Use:   "frame <forward|back>",
		Short: "Step a single frame while paused",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				switch args[0] {
				case "forward":
					return client.Command("frame_forward", "menu")
				case "back":
					return client.Command("frame_back", "menu")
				}
				return fmt.Errorf("frame direction must be forward or back, got %q", args[0])
			})
		},
	}

	durationCmd := &cobra.Command{
		Use:   "duration <seconds>",
		Short: "Report the media duration discovered by the playback shell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := parseSeconds(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				_, err := client.SetDuration(seconds)
				return err
			})
		},
	}

	keyCmd := &cobra.Command{
		Use:   "key <name>",
		Short: "Route a keyboard shortcut through the daemon key map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				return client.Key(args[0])
			})
		},
	}

	return []*cobra.Command{
		playCmd, pauseCmd, toggleCmd, stopCmd, muteCmd, speedCmd,
		seekCmd, skipCmd, rateCmd, volumeCmd, frameCmd, durationCmd, keyCmd,
	}
}

func newLoopCommand(ctx *commandContext) *cobra.Command {
	loopCmd := &cobra.Command{
		Use:   "loop <start|end|clear>",
		Short: "Manage the A-B loop window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var command string
			switch args[0] {
			case "start":
				command = "loop_start"
			case "end":
				command = "loop_end"
			case "clear":
				command = "loop_clear"
			default:
				return fmt.Errorf("loop action must be start, end, or clear, got %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				return client.Command(command, "menu")
			})
		},
	}
	return loopCmd
}

func newBookmarkCommand(ctx *commandContext) *cobra.Command {
	bookmarkCmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Bookmark the current position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				return client.Command("add_bookmark", "menu")
			})
		},
	}
	bookmarkCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List bookmarks for the active item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				if len(status.Player.Bookmarks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No bookmarks")
					return nil
				}
				for _, mark := range status.Player.Bookmarks {
					fmt.Fprintln(cmd.OutOrStdout(), timecode.Clock(mark))
				}
				return nil
			})
		},
	})
	return bookmarkCmd
}

func parseSeconds(value string) (float64, error) {
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid position %q", value)
	}
	return seconds, nil
}
