package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
	"neuralplay/internal/timecode"
)

func newAnalysisCommands(ctx *commandContext) []*cobra.Command {
	chaptersCmd := &cobra.Command{
		Use:   "chapters",
		Short: "List chapters derived from scene analysis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Chapters()
				if err != nil {
					return err
				}
				if len(resp.Chapters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No chapters yet")
					return nil
				}
				rows := make([][]string, 0, len(resp.Chapters))
				for _, ch := range resp.Chapters {
					rows = append(rows, []string{
						strconv.Itoa(ch.Index),
						timecode.Clock(ch.Start),
						timecode.Clock(ch.End),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Start", "End"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	var highlightCount int
	highlightsCmd := &cobra.Command{
		Use:   "highlights",
		Short: "List the longest scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Highlights(highlightCount)
				if err != nil {
					return err
				}
				if len(resp.Scenes) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No highlights yet")
					return nil
				}
				rows := make([][]string, 0, len(resp.Scenes))
				for _, scene := range resp.Scenes {
					rows = append(rows, []string{
						timecode.Clock(scene.Start),
						fmt.Sprintf("%.1fs", scene.Duration),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Start", "Length"},
					rows,
					[]columnAlignment{alignRight, alignRight},
				))
				return nil
			})
		},
	}
	highlightsCmd.Flags().IntVar(&highlightCount, "count", 5, "Number of highlights to list")

	skipShortcut := func(use, short, target string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.SkipShortcut(target)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Position %s\n", timecode.Clock(resp.Position))
					return nil
				})
			},
		}
	}

	labelsCmd := func(use, short, category string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.Labels(category)
					if err != nil {
						return err
					}
					if len(resp.Hits) == 0 {
						fmt.Fprintf(cmd.OutOrStdout(), "No %s yet\n", category)
						return nil
					}
					rows := make([][]string, 0, len(resp.Hits))
					for _, hit := range resp.Hits {
						rows = append(rows, []string{hit.Label, timecode.Clock(hit.Time)})
					}
					fmt.Fprintln(cmd.OutOrStdout(), renderTable(
						[]string{"Label", "Seen At"},
						rows,
						[]columnAlignment{alignLeft, alignRight},
					))
					return nil
				})
			},
		}
	}

	featureCmd := &cobra.Command{
		Use:   "feature <scenes|objects|emotions> <on|off>",
		Short: "Toggle an analysis category for the active stream",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Feature(args[0], enabled)
				if err != nil {
					return err
				}
				if resp.Enabled {
					fmt.Fprintf(cmd.OutOrStdout(), "%s enabled\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s disabled\n", args[0])
				}
				return nil
			})
		},
	}

	return []*cobra.Command{
		chaptersCmd,
		highlightsCmd,
		labelsCmd("objects", "List detected objects and when they appear", "objects"),
		labelsCmd("emotions", "List detected emotions and when they appear", "emotions"),
		featureCmd,
		skipShortcut("skip-intro", "Jump past the opening scene", "intro"),
		skipShortcut("near-end", "Jump to the second-to-last scene", "near_end"),
	}
}

func newClipCommand(ctx *commandContext) *cobra.Command {
	clipCmd := &cobra.Command{
		Use:   "clip",
		Short: "Export the armed loop window as a clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RequestClip()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Clip %s requested (%s to %s)\n",
					resp.Result.ID,
					timecode.Clock(resp.Result.Start),
					timecode.Clock(resp.Result.End))
				return nil
			})
		},
	}
	clipCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the most recent clip request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ClipStatus()
				if err != nil {
					return err
				}
				result := resp.Result
				fmt.Fprintf(cmd.OutOrStdout(), "Clip %s: %s\n", result.ID, result.Status)
				if result.OutputPath != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", result.OutputPath)
				}
				if result.Error != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "Error: %s\n", result.Error)
				}
				return nil
			})
		},
	})
	return clipCmd
}
