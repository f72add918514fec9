package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
)

func newPlaylistCommand(ctx *commandContext) *cobra.Command {
	playlistCmd := &cobra.Command{
		Use:   "playlist",
		Short: "Manage playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlaylistCreate(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created playlist %d (%s)\n", resp.Playlist.ID, resp.Playlist.Name)
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add <id> <path>",
		Short: "Append a file to a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlaylistID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				return client.PlaylistEdit(ipc.PlaylistEditRequest{ID: id, Path: args[1]})
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <id> <path>",
		Short: "Remove a file from a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlaylistID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				return client.PlaylistEdit(ipc.PlaylistEditRequest{ID: id, Path: args[1], Remove: true})
			})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List playlists and their items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlaylistList()
				if err != nil {
					return err
				}
				if len(resp.Playlists) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No playlists")
					return nil
				}
				rows := make([][]string, 0, len(resp.Playlists))
				for _, pl := range resp.Playlists {
					rows = append(rows, []string{
						strconv.FormatInt(pl.ID, 10),
						pl.Name,
						strconv.Itoa(len(pl.Items)),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Items"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	var startIndex int
	playCmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Start queue playback from a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlaylistID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlaylistPlay(id, startIndex)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%d of %d)\n",
					resp.Queue.Current.Name, resp.Queue.Index+1, resp.Queue.Length)
				return nil
			})
		},
	}
	playCmd.Flags().IntVar(&startIndex, "start", 0, "Index to start from")

	playlistCmd.AddCommand(createCmd, addCmd, removeCmd, listCmd, playCmd)
	return playlistCmd
}

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Navigate and configure the active play queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	action := func(use, short, action string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.Queue(ipc.QueueRequest{Action: action})
					if err != nil {
						return err
					}
					printQueueStatus(cmd, resp)
					return nil
				})
			},
		}
	}

	shuffleCmd := &cobra.Command{
		Use:   "shuffle <on|off>",
		Short: "Enable or disable shuffle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Queue(ipc.QueueRequest{Action: "shuffle", Shuffle: enabled})
				if err != nil {
					return err
				}
				printQueueStatus(cmd, resp)
				return nil
			})
		},
	}

	repeatCmd := &cobra.Command{
		Use:   "repeat <none|one|all>",
		Short: "Set the repeat mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "none", "one", "all":
			default:
				return fmt.Errorf("repeat mode must be none, one, or all, got %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Queue(ipc.QueueRequest{Action: "repeat", Repeat: args[0]})
				if err != nil {
					return err
				}
				printQueueStatus(cmd, resp)
				return nil
			})
		},
	}

	queueCmd.AddCommand(
		action("next", "Advance to the next item", "next"),
		action("previous", "Return to the previous item", "previous"),
		action("clear", "Dismiss the active queue", "clear"),
		action("status", "Show the queue state", "status"),
		shuffleCmd,
		repeatCmd,
	)
	return queueCmd
}

func printQueueStatus(cmd *cobra.Command, resp *ipc.QueueResponse) {
	out := cmd.OutOrStdout()
	if !resp.Queue.Active {
		fmt.Fprintln(out, "No active queue")
		return
	}
	fmt.Fprintf(out, "Playing %s (%d of %d)\n", resp.Queue.Current.Name, resp.Queue.Index+1, resp.Queue.Length)
	fmt.Fprintf(out, "Shuffle: %s  Repeat: %s\n", yesNo(resp.Queue.Shuffled), resp.Queue.Repeat)
}

func parsePlaylistID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid playlist id %q", value)
	}
	return id, nil
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("expected on or off, got %q", value)
	}
}
