package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	verbosity  int
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "teamup",
		Short:         "Send TeamUp chat messages, feed posts and notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Optional YAML config file; environment variables override it")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "Increase log verbosity")

	cmd.AddCommand(newChatCommand(opts))
	cmd.AddCommand(newFeedCommand(opts))
	cmd.AddCommand(newNoteCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newTokenCommand(opts))
	return cmd
}
