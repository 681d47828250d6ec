package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leaserag/internal/adapters/driving/tui"
)

var chatLease string

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive lease chat",
	Long: `Launch an interactive terminal chat over your indexed leases.

Pick a lease, or the whole portfolio, then ask questions. Each answer shows
the responsible party and the clauses it cites.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Ask
  Tab      - Browse citations
  Esc      - Back
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatLease, "lease", "l", "", "start a conversation about this lease")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := newChatApp(cmd)
	if err != nil {
		return err
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// newChatApp builds the TUI app from the injected services.
func newChatApp(cmd *cobra.Command) (*tui.App, error) {
	app, err := tui.NewApp(tui.NewPorts(queryService, leaseService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app.WithContext(ctx)

	if chatLease != "" {
		lease, err := leaseService.GetLease(ctx, chatLease)
		if err != nil {
			return nil, fmt.Errorf("failed to get lease: %w", err)
		}
		app.WithLease(lease)
	}
	return app, nil
}
