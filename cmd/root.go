package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/asgroll/internal/config"
)

var (
	// Global flags
	profile string
	region  string
	verbose bool

	// Loaded by initConfig
	appConfig = &config.Config{}
	logger    = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "asgroll <asg-name>",
	Short: "Roll an Auto Scaling Group onto a new AMI",
	Long: `asgroll clones the launch configuration of an Auto Scaling Group with a new
AMI, attaches the clone to the group and optionally starts an instance refresh.

Steps:
  1. Describe the group and read its launch configuration name
  2. Describe that launch configuration
  3. Create a new launch configuration with the same instance type,
     key pair and security groups, and the new AMI
  4. Point the group at the new launch configuration
  5. (--instance-refresh) Start an instance refresh and describe it

Examples:
  asgroll web --new-ami-id ami-0abc --new-launch-configuration-name web-v2
  asgroll web --new-ami-id ami-0abc --new-launch-configuration-name web-v2 --instance-refresh
  asgroll web --new-ami-id ami-0abc --new-launch-configuration-name web-v2 --instance-refresh --wait
  asgroll web --new-ami-id ami-0abc --new-launch-configuration-name web-v2 --dry-run`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRollout,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	rootCmd.PersistentFlags().StringVarP(&region, "region", "r", "", "AWS region to use")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Bind flags to viper
	_ = viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	initRolloutFlags()
}

func initConfig() {
	// Read from environment variables
	viper.SetEnvPrefix("ASGROLL")
	viper.AutomaticEnv()

	logger = newLogger(viper.GetBool("verbose"))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warn("ignoring config file", "path", config.GetConfigPath(), "error", err)
		cfg = &config.Config{}
	}
	appConfig = cfg

	// Priority for profile: --profile flag > ASGROLL_PROFILE > config file > AWS_PROFILE env
	profile = viper.GetString("profile")
	if profile == "" {
		if saved := config.GetSavedProfile(); saved != "" {
			profile = saved
		} else {
			profile = os.Getenv("AWS_PROFILE")
		}
	}

	// Priority for region: --region flag > ASGROLL_REGION > AWS_REGION > AWS_DEFAULT_REGION > config file.
	// When all are empty the SDK shared config is consulted and then the fallback.
	region = viper.GetString("region")
	if region == "" {
		region = os.Getenv("AWS_REGION")
		if region == "" {
			region = os.Getenv("AWS_DEFAULT_REGION")
		}
		if region == "" {
			region = cfg.AWSRegion
		}
	}
}

// newLogger writes text logs to stderr so step output on stdout stays clean
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// GetProfile returns the AWS profile
func GetProfile() string {
	return profile
}

// GetRegion returns the AWS region
func GetRegion() string {
	return region
}
