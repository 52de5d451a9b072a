package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/asgroll/internal/aws"
	"github.com/vietdv277/asgroll/internal/rollout"
	"github.com/vietdv277/asgroll/internal/ui"
	"github.com/vietdv277/asgroll/pkg/provider"
)

var (
	newAMIID                   string
	newLaunchConfigurationName string
	instanceRefresh            bool
	waitForRefresh             bool
	dryRun                     bool
	checkIdentity              bool
)

func initRolloutFlags() {
	flags := rootCmd.Flags()
	flags.StringVar(&newAMIID, "new-ami-id", "", "AMI for the new launch configuration")
	flags.StringVar(&newLaunchConfigurationName, "new-launch-configuration-name", "", "Name of the launch configuration to create")
	flags.BoolVar(&instanceRefresh, "instance-refresh", false, "Start an instance refresh after updating the group")
	flags.BoolVar(&waitForRefresh, "wait", false, "Poll the instance refresh until it finishes (requires --instance-refresh)")
	flags.BoolVar(&dryRun, "dry-run", false, "Only describe the group and print the launch configuration that would be created")
	flags.BoolVar(&checkIdentity, "check-identity", false, "Resolve the caller identity before making changes")

	_ = rootCmd.MarkFlagRequired("new-ami-id")
	_ = rootCmd.MarkFlagRequired("new-launch-configuration-name")
}

// rolloutInput builds the rollout parameters from flags and config
func rolloutInput(args []string) (rollout.Input, error) {
	if waitForRefresh && !instanceRefresh {
		return rollout.Input{}, fmt.Errorf("--wait requires --instance-refresh")
	}

	return rollout.Input{
		GroupName:               args[0],
		ImageID:                 newAMIID,
		LaunchConfigurationName: newLaunchConfigurationName,
		InstanceRefresh:         instanceRefresh,
		Wait:                    waitForRefresh,
		DryRun:                  dryRun,
		Preferences:             appConfig.RefreshPreferences(),
	}, nil
}

func runRollout(cmd *cobra.Command, args []string) error {
	input, err := rolloutInput(args)
	if err != nil {
		return err
	}

	client, err := aws.NewClient(
		cmd.Context(),
		aws.WithProfile(GetProfile()),
		aws.WithRegion(GetRegion()),
		aws.WithRegionFallback(appConfig.GetRegionFallback()),
	)
	if err != nil {
		return fmt.Errorf("failed to create AWS client: %w", err)
	}

	logger.Debug("using AWS client", "profile", client.Profile(), "region", client.Region())

	if checkIdentity {
		if err := verifyIdentity(client); err != nil {
			return err
		}
	}

	runner := rollout.NewRunner(client, ui.NewPrinter(cmd.OutOrStdout()), logger)
	runner.NewBackOff = rollout.BackOffWithTimeout(appConfig.WaitTimeout())

	res, err := runner.Run(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("rollout of %s failed: %w", input.GroupName, err)
	}

	logRolloutResult(res)
	return nil
}

// verifyIdentity resolves and logs the principal the rollout runs as
func verifyIdentity(p provider.IdentityProvider) error {
	identity, err := p.GetCallerIdentity()
	if err != nil {
		return fmt.Errorf("failed to resolve caller identity: %w", err)
	}
	logger.Info("authenticated", "account", identity.Account, "arn", identity.Arn)
	return nil
}

// logRolloutResult logs a one line summary of a finished rollout
func logRolloutResult(res *rollout.Result) {
	attrs := []any{"group", res.Group.Name}
	if res.Previous != nil {
		attrs = append(attrs, "previous_launch_configuration", res.Previous.Name)
	}
	if res.Created != nil {
		attrs = append(attrs, "launch_configuration", res.Created.Name, "image_id", res.Created.ImageID)
	}
	if res.Refresh != nil {
		attrs = append(attrs, "refresh_id", res.Refresh.ID, "refresh_status", res.Refresh.Status)
	}

	if res.Created == nil {
		logger.Info("rollout planned", attrs...)
		return
	}
	logger.Info("rollout complete", attrs...)
}
