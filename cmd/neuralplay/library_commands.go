package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"neuralplay/internal/ipc"
	"neuralplay/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Browse and manage the media library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var sortFlag string
	var filterFlag string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the library catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Catalog(ipc.CatalogRequest{Sort: sortFlag, Filter: filterFlag})
				if err != nil {
					return err
				}
				printItems(cmd, resp.Items)
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&sortFlag, "sort", "name", "Sort order (name or date_added)")
	listCmd.Flags().StringVar(&filterFlag, "filter", "", "Case-insensitive name filter")

	collection := func(use, short, name string) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.Collection(name)
					if err != nil {
						return err
					}
					printItems(cmd, resp.Items)
					return nil
				})
			},
		}
	}

	toggle := func(use, short, name string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <path>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return ctx.withClient(func(client *ipc.Client) error {
					resp, err := client.Toggle(name, args[0])
					if err != nil {
						return err
					}
					if resp.Present {
						fmt.Fprintf(cmd.OutOrStdout(), "Added to %s\n", name)
					} else {
						fmt.Fprintf(cmd.OutOrStdout(), "Removed from %s\n", name)
					}
					return nil
				})
			},
		}
	}

	removeCmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a file from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				return client.Remove(args[0])
			})
		},
	}

	libraryCmd.AddCommand(listCmd)
	libraryCmd.AddCommand(collection("history", "List recently played items", "history"))
	libraryCmd.AddCommand(collection("recent", "List recently opened files", "recent"))
	libraryCmd.AddCommand(collection("favorites", "List favorite items", "favorites"))
	libraryCmd.AddCommand(collection("watch-later", "List the watch later queue", "watch_later"))
	libraryCmd.AddCommand(toggle("favorite", "Toggle a file's favorite flag", "favorites"))
	libraryCmd.AddCommand(toggle("later", "Toggle a file's watch later flag", "watch_later"))
	libraryCmd.AddCommand(removeCmd)

	return libraryCmd
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <folder>",
		Short: "Scan a folder for media files and add them to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Scan(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d files\n", len(resp.Paths))
				return nil
			})
		},
	}
}

func printItems(cmd *cobra.Command, items []library.Item) {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No items")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Name, item.Path})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Name", "Path"},
		rows,
		[]columnAlignment{alignLeft, alignLeft},
	))
}
