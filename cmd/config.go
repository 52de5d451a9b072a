package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vietdv277/asgroll/internal/config"
	"github.com/vietdv277/asgroll/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage saved defaults",
	Long: `Show or change the defaults stored in the config file.

Examples:
  asgroll config show
  asgroll config set aws_profile prod
  asgroll config set region_fallback eu-west-1
  asgroll config set refresh.checkpoint_percentages 25,50,100
  asgroll config set refresh.wait_timeout 45m`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the saved config",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config key",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.MutedStyle.Render("# "+config.GetConfigPath()))
	_, err = out.Write(data)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := config.Set(args[0], args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
	return nil
}
