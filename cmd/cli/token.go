package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/fedicore/pkg/constants"
	"github.com/turtacn/fedicore/pkg/utils"
)

func newTokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Mint an operator token for the submit-note API",
		Long: `Mint an HS256 bearer token that lets its holder submit notes as <username>
through POST /users/<username>/notes/<note-id>. Requires operator.token_secret.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateUsername(args[0]); err != nil {
				return err
			}
			n, err := newNode()
			if err != nil {
				return err
			}
			defer n.close(context.Background())

			if n.operators == nil {
				return fmt.Errorf("operator.token_secret is not configured")
			}
			lifetime := utils.DefaultDuration(ttl, utils.DefaultDuration(n.cfg.Operator.TokenTTL, constants.DefaultOperatorTokenTTL))
			token, err := n.operators.Issue(args[0], lifetime)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default operator.token_ttl)")
	return cmd
}
