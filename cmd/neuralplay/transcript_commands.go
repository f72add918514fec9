package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
	"neuralplay/internal/timecode"
)

func newTranscriptCommands(ctx *commandContext) []*cobra.Command {
	var captionOffset float64
	captionCmd := &cobra.Command{
		Use:   "caption",
		Short: "Show the caption at the current position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Caption(captionOffset)
				if err != nil {
					return err
				}
				if !resp.Active {
					fmt.Fprintln(cmd.OutOrStdout(), "No caption at the current position")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%s - %s] %s\n",
					timecode.Clock(resp.Start), timecode.Clock(resp.End), resp.Text)
				return nil
			})
		},
	}
	captionCmd.Flags().Float64Var(&captionOffset, "offset", 0, "Subtitle timing offset in seconds")

	subsCmd := &cobra.Command{
		Use:   "subs <path|clear>",
		Short: "Install or clear an external subtitle file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if args[0] == "clear" {
					if _, err := client.Subtitles(ipc.SubtitlesRequest{Clear: true}); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "External subtitles cleared")
					return nil
				}
				resp, err := client.Subtitles(ipc.SubtitlesRequest{Path: args[0]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d subtitle segments\n", resp.Segments)
				return nil
			})
		},
	}

	var exportFormat string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded transcript to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ExportTranscript(exportFormat)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", resp.Path)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Export format (txt or srt)")

	var seekMatch int
	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the transcript of the active item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SearchTranscript(query)
				if err != nil {
					return err
				}
				if len(resp.Matches) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No matches")
					return nil
				}
				if seekMatch > 0 {
					if seekMatch > len(resp.Matches) {
						return fmt.Errorf("match %d out of range (only %d matches)", seekMatch, len(resp.Matches))
					}
					target := resp.Matches[seekMatch-1]
					if _, err := client.Seek(target.Start); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Seeked to %s: %s\n",
						timecode.Clock(target.Start), target.Text)
					return nil
				}
				rows := make([][]string, 0, len(resp.Matches))
				for i, match := range resp.Matches {
					rows = append(rows, []string{
						strconv.Itoa(i + 1),
						timecode.Clock(match.Start),
						match.Text,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Time", "Text"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	searchCmd.Flags().IntVar(&seekMatch, "seek", 0, "Seek to the Nth match instead of listing")

	askCmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the active item",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Ask(ipc.AskRequest{Query: query})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
				return nil
			})
		},
	}

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize the active item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Ask(ipc.AskRequest{Summarize: true})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), resp.Answer)
				return nil
			})
		},
	}

	return []*cobra.Command{captionCmd, subsCmd, exportCmd, searchCmd, askCmd, summarizeCmd}
}
