package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/fedicore/internal/application/dto"
)

// printJSON writes v indented, the way the documents are served.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func newActorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "actor <username>",
		Short: "Print the actor document of a local account",
		Long: `Print the actor document of a local account. Keys live in memory only,
so every invocation mints a fresh keypair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newNode()
			if err != nil {
				return err
			}
			defer n.close(context.Background())

			actor, err := n.federation.GetActor(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), actor)
		},
	}
}

func newWebFingerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "webfinger <acct:user@domain>",
		Short: "Resolve a WebFinger resource against the local domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newNode()
			if err != nil {
				return err
			}
			defer n.close(context.Background())

			doc, err := n.federation.ResolveWebFinger(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
}

func newNoteCmd() *cobra.Command {
	var req dto.SubmitNoteRequest

	cmd := &cobra.Command{
		Use:   "note <username> <note-id>",
		Short: "Sign and deliver a Create(Note) to a remote inbox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newNode()
			if err != nil {
				return err
			}
			defer n.close(context.Background())

			resp, err := n.federation.SubmitNote(cmd.Context(), args[0], args[1], &req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&req.Inbox, "inbox", "", "remote inbox URL")
	cmd.Flags().StringVar(&req.Content, "content", "", "note content (HTML)")
	cmd.Flags().StringVar(&req.InReplyTo, "in-reply-to", "", "id of the object being replied to")
	_ = cmd.MarkFlagRequired("inbox")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}
