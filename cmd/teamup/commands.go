package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"teamup-notifier/model"
)

func newChatCommand(opts *rootOptions) *cobra.Command {
	var (
		room    int64
		content string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat message to a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), cmd.OutOrStdout(), opts, model.Action{
				Type:     model.ActionChat,
				TargetID: strconv.FormatInt(room, 10),
				Content:  content,
			})
		},
	}

	cmd.Flags().Int64Var(&room, "room", 0, "Chat room index")
	cmd.Flags().StringVar(&content, "content", "", "Message text")
	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newFeedCommand(opts *rootOptions) *cobra.Command {
	var (
		group   int64
		content string
		push    bool
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Publish a post to a feed group",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), cmd.OutOrStdout(), opts, model.Action{
				Type:     model.ActionFeed,
				TargetID: strconv.FormatInt(group, 10),
				Content:  content,
				Push:     push,
			})
		},
	}

	cmd.Flags().Int64Var(&group, "group", 0, "Feed group index")
	cmd.Flags().StringVar(&content, "content", "", "Post text")
	cmd.Flags().BoolVar(&push, "push", false, "Force a push notification")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newNoteCommand(opts *rootOptions) *cobra.Command {
	var (
		to      string
		title   string
		content string
	)

	cmd := &cobra.Command{
		Use:   "note",
		Short: "Send a note to the first user matching a search query",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSingle(cmd.Context(), cmd.OutOrStdout(), opts, model.Action{
				Type:     model.ActionNote,
				TargetID: to,
				Title:    title,
				Content:  content,
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "User search query, usually an email")
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&content, "content", "", "Note text")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search TeamUp users",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.client.SearchUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newRunCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a JSON array of actions and print one result per action",
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "" && file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			var actions []model.Action
			if err := json.NewDecoder(in).Decode(&actions); err != nil {
				return fmt.Errorf("decode actions: %w", err)
			}

			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			return writeJSON(cmd.OutOrStdout(), a.executor.ExecuteAll(cmd.Context(), actions))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Actions file, - for stdin")
	return cmd
}

func newTokenCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Obtain or reuse the cached access token and print its expiry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			token, err := a.tokens.Token(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok, expires at %s\n", time.Unix(token.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
}
