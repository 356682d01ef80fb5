package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mdouchement/itemstore/internal/client"
	"github.com/mdouchement/itemstore/internal/client/store"
	"github.com/mdouchement/itemstore/internal/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version  = "dev"
	revision = "none"
	date     = "unknown"

	cfgfile  string
	endpoint string

	items *store.Store
	log   *logrus.Logger
)

func main() {
	c := &cobra.Command{
		Use:               "items",
		Short:             "Items client",
		Version:           fmt.Sprintf("%s - build %.7s @ %s", version, revision, date),
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	c.PersistentFlags().StringVarP(&cfgfile, "config", "c", "", "Configuration file (default: ./"+client.ConfigFile+" when present)")
	c.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Items server endpoint")

	listCmd.Flags().Bool("debug", false, "Dump raw records")
	addCmd.Flags().String("title", "", "Item title (runs the interactive form when omitted)")
	addCmd.Flags().String("description", "", "Item description")
	addCmd.Flags().String("student-id", "", "Owner identifier (default from config)")
	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("description", "", "New description")

	c.AddCommand(tuiCmd)
	c.AddCommand(listCmd)
	c.AddCommand(watchCmd)
	c.AddCommand(addCmd)
	c.AddCommand(editCmd)
	c.AddCommand(rmCmd)

	if err := c.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := client.Load(cfgfile)
	if err != nil {
		return err
	}
	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	log = logger.New(cfg.Log)
	items, err = client.NewStore(cfg, log)
	return err
}

var (
	tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Text-based items application",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return client.TUI(items, log)
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the items, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			return client.List(cmd.Context(), items, os.Stdout, debug)
		},
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print the items on each change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return client.Watch(ctx, items, os.Stdout, log)
		},
	}

	addCmd = &cobra.Command{
		Use:   "add",
		Short: "Create an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("title") {
				return client.Prompt(cmd.Context(), items, os.Stdout, nil, log)
			}

			var in store.CreateInput
			in.Title, _ = cmd.Flags().GetString("title")
			in.Description, _ = cmd.Flags().GetString("description")
			in.StudentID, _ = cmd.Flags().GetString("student-id")
			return client.Add(cmd.Context(), items, os.Stdout, in)
		},
	}

	editCmd = &cobra.Command{
		Use:   "edit ID",
		Short: "Update the given fields of an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in store.UpdateInput
			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				in.Title = &title
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				in.Description = &description
			}
			return client.Edit(cmd.Context(), items, os.Stdout, args[0], in)
		},
	}

	rmCmd = &cobra.Command{
		Use:   "rm ID",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.Remove(cmd.Context(), items, os.Stdout, args[0])
		},
	}
)
