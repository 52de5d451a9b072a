package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/asgroll/internal/aws"
	"github.com/vietdv277/asgroll/internal/ui"
	"github.com/vietdv277/asgroll/pkg/provider"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the AWS identity the rollout would run as",
	Long: `Resolve the active credentials with STS and print the account, user ID and ARN.

Examples:
  asgroll whoami
  asgroll whoami --profile prod`,
	Args: cobra.NoArgs,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	client, err := aws.NewClient(
		cmd.Context(),
		aws.WithProfile(GetProfile()),
		aws.WithRegion(GetRegion()),
		aws.WithRegionFallback(appConfig.GetRegionFallback()),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	return printIdentity(client, ui.NewPrinter(cmd.OutOrStdout()))
}

func printIdentity(p provider.IdentityProvider, printer *ui.Printer) error {
	identity, err := p.GetCallerIdentity()
	if err != nil {
		return fmt.Errorf("failed to get caller identity: %w", err)
	}

	return printer.Identity(identity)
}
