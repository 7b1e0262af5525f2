package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/embedchat/widget-runtime/internal/progress"
	"github.com/embedchat/widget-runtime/internal/relay"
	"github.com/embedchat/widget-runtime/internal/state"
	"github.com/embedchat/widget-runtime/internal/widget"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the configured webhook from the terminal",
	Long: `Runs the full widget engine against the configured webhook in an
interactive terminal loop, with the same session, attachment, and
error semantics as the embedded widget.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadWidgetConfig()
		if err != nil {
			return err
		}
		if cfg.Connection.WebhookURL == "" {
			return fmt.Errorf("connection.webhook_url is not configured")
		}
		store, database, err := openStorage()
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		rt := widget.New(cfg, widget.Options{Storage: store})
		defer rt.Shutdown()
		rt.Open()

		title := cfg.Branding.Title
		if title == "" {
			title = "embedchat"
		}
		fmt.Printf("%s (session %s)\n", title, rt.Sessions().GetSessionID())
		if welcome := cfg.Branding.WelcomeMessage; welcome != "" {
			fmt.Printf("assistant> %s\n", welcome)
		}
		fmt.Println(`Type a message, "/attach <file>", "/reset", or "/quit".`)

		spinner := progress.NewSpinner()
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				continue
			case line == "/quit":
				return nil
			case line == "/reset":
				rt.ClearHistory()
				rt.Sessions().ResetSession()
				fmt.Println("conversation and session cleared")
				continue
			case strings.HasPrefix(line, "/attach "):
				path := strings.TrimSpace(strings.TrimPrefix(line, "/attach "))
				if err := attachFile(rt, path); err != nil {
					fmt.Fprintf(os.Stderr, "attach: %v\n", err)
				} else {
					fmt.Printf("attached %s\n", filepath.Base(path))
				}
				continue
			}

			spinner.Start("Waiting for reply")
			err := rt.Send(cmd.Context(), line)
			spinner.Stop()
			if errors.Is(err, relay.ErrSendInFlight) {
				fmt.Fprintln(os.Stderr, "a message is already being sent")
				continue
			}
			if err != nil && verbose {
				fmt.Fprintf(os.Stderr, "send: %v\n", err)
			}
			printReply(rt.State().State())
		}
		return scanner.Err()
	},
}

// attachFile stages a local file on the relay client, the terminal
// equivalent of dropping a file on the composer.
func attachFile(rt *widget.Runtime, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return rt.Relay().Attach(state.FileRef{
		Name: filepath.Base(path),
		MIME: mimeType,
		Size: info.Size(),
		Path: path,
	})
}

// printReply prints the newest assistant message. Failed sends surface
// here too, as the generic error message the widget would show.
func printReply(s state.WidgetState) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == state.RoleAssistant {
			fmt.Printf("assistant> %s\n", s.Messages[i].Content)
			return
		}
	}
}

func init() {
	chatCmd.Flags().StringVar(&fetchFrom, "from", "", "Fetch the widget config from a running host instead of the local file")
	chatCmd.Flags().StringVar(&storePath, "store", "", "SQLite file for session persistence (default in-memory)")
	rootCmd.AddCommand(chatCmd)
}
