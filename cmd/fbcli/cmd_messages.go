package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"fbcli/internal/render"
	"fbcli/internal/types"
)

// =============================================================================
// MESSENGER COMMANDS
// =============================================================================

var (
	listLimit int

	readConversationID string
	readLimit          int

	sendUserID  string
	sendMessage string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversations",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read messages from a conversation",
	Args:  cobra.NoArgs,
	RunE:  runRead,
}

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Send a message to a user",
	Example: `  fbcli send --user-id 100012345678 --message "Is it still available?"`,
	Args:    cobra.NoArgs,
	RunE:    runSend,
}

func registerMessageCommands() {
	listCmd.Flags().IntVar(&listLimit, "limit", types.DefaultConversationLimit, "Maximum conversations")

	readCmd.Flags().StringVar(&readConversationID, "conversation-id", "", "Conversation ID (required)")
	readCmd.Flags().IntVar(&readLimit, "limit", types.DefaultMessageLimit, "Maximum messages")
	_ = readCmd.MarkFlagRequired("conversation-id")

	sendCmd.Flags().StringVar(&sendUserID, "user-id", "", "User ID (required)")
	sendCmd.Flags().StringVar(&sendMessage, "message", "", "Message text (required)")
	_ = sendCmd.MarkFlagRequired("user-id")
	_ = sendCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(sendCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		conversations, err := a.messenger.ListConversations(ctx, types.MessageOptions{Limit: listLimit})
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		return render.Conversations(cmd.OutOrStdout(), format, conversations)
	})
}

func runRead(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		messages, err := a.messenger.ReadConversation(ctx, readConversationID, types.MessageOptions{Limit: readLimit})
		if err != nil {
			return fmt.Errorf("failed to read messages: %w", err)
		}
		return render.Messages(cmd.OutOrStdout(), format, messages)
	})
}

func runSend(cmd *cobra.Command, args []string) error {
	return withApp(func(ctx context.Context, a *app) error {
		if err := a.messenger.SendMessage(ctx, sendUserID, sendMessage); err != nil {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return render.Sent(cmd.OutOrStdout())
	})
}
