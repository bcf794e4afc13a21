package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// version is overridden at build time with -ldflags "-X github.com/turtacn/fedicore/cmd/cli.version=..."
var version = "0.1.0-dev"

// rootCmd represents the base command when the `fedicore` binary is called without any subcommands.
// rootCmd 代表在没有任何子命令的情况下调用 `fedicore` 二进制文件时的基本命令。
var rootCmd = &cobra.Command{
	Use:   "fedicore",
	Short: "An ActivityPub identity and signed-delivery node.",
	Long: `fedicore serves ActivityPub actor and WebFinger documents for local accounts
and delivers HTTP-signed Create(Note) activities to remote inboxes.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a config file (default ./config.yaml)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newActorCmd())
	rootCmd.AddCommand(newWebFingerCmd())
	rootCmd.AddCommand(newNoteCmd())
	rootCmd.AddCommand(newTokenCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute is the main entry point for the CLI application.
// If an error occurs, it prints the error and exits.
// Execute 是 CLI 应用程序的主入口点。如果发生错误，它会打印错误并退出。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
