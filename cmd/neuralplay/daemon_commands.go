package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
	"neuralplay/internal/timecode"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and playback status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()

				fmt.Fprintf(out, "Daemon: running (pid %d)\n", resp.PID)
				fmt.Fprintf(out, "Library: %s\n", resp.LibraryDBPath)

				player := resp.Player
				if !player.Loaded {
					fmt.Fprintln(out, "Playback: nothing loaded")
				} else {
					state := "paused"
					if player.Playing {
						state = "playing"
					}
					fmt.Fprintf(out, "Playback: %s %s at %s", state, player.Source.DisplayName,
						timecode.Clock(player.Position))
					if player.Duration > 0 {
						fmt.Fprintf(out, " / %s", timecode.Clock(player.Duration))
					}
					fmt.Fprintln(out)
					fmt.Fprintf(out, "Speed: %gx  Volume: %.0f%%  Muted: %s\n",
						player.Rate, player.Volume*100, yesNo(player.Muted))
					if player.Loop.Active {
						fmt.Fprintf(out, "Loop: %s to %s\n",
							timecode.Clock(player.Loop.Start), timecode.Clock(player.Loop.End))
					}
				}

				fmt.Fprintf(out, "Analysis: %s", resp.Analysis.State)
				if resp.Analysis.Detail != "" {
					fmt.Fprintf(out, " (%s)", resp.Analysis.Detail)
				}
				fmt.Fprintf(out, "  scenes=%d objects=%d emotions=%d\n",
					resp.Analysis.SceneCount, resp.Analysis.ObjectCount, resp.Analysis.EmotionCount)

				if resp.Queue.Active {
					fmt.Fprintf(out, "Queue: %d of %d  shuffle=%s repeat=%s\n",
						resp.Queue.Index+1, resp.Queue.Length,
						yesNo(resp.Queue.Shuffled), resp.Queue.Repeat)
				}
				return nil
			})
		},
	}
}

func newShutdownCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "Stop the daemon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.Shutdown(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Shutdown requested")
				return nil
			})
		},
	}
}

func newVoiceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "voice <on|off>",
		Short: "Enable or disable voice control",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.Voice(enabled); err != nil {
					return err
				}
				if enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "Voice control enabled")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Voice control disabled")
				}
				return nil
			})
		},
	}
}

func newShellEventsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell-events",
		Short: "Drain pending shell events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ShellEvents()
				if err != nil {
					return err
				}
				for _, event := range resp.Events {
					fmt.Fprintln(cmd.OutOrStdout(), event)
				}
				return nil
			})
		},
	}
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.TestNotification(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
				return nil
			})
		},
	}
}
