// Package rollout moves an Auto Scaling Group onto a new machine image by
// cloning its launch configuration.
package rollout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cenkalti/backoff/v4"

	"github.com/vietdv277/asgroll/pkg/provider"
	"github.com/vietdv277/asgroll/pkg/types"
)

var (
	// ErrNoLaunchConfiguration is returned for groups that launch from a
	// template or have no launch configuration attached
	ErrNoLaunchConfiguration = errors.New("auto scaling group has no launch configuration")

	// ErrRefreshFailed is returned by a waited refresh that ended in any
	// status other than Successful
	ErrRefreshFailed = errors.New("instance refresh did not succeed")
)

// Printer receives the response of every step as it completes
type Printer interface {
	Step(title string, v any) error
}

// Input contains parameters for a rollout
type Input struct {
	GroupName               string
	ImageID                 string
	LaunchConfigurationName string

	// InstanceRefresh starts a refresh once the group points at the new
	// launch configuration
	InstanceRefresh bool

	// Wait polls the refresh until it finishes instead of describing it once
	Wait bool

	// DryRun stops after the read-only steps
	DryRun bool

	Preferences types.RefreshPreferences
}

// Result holds what a rollout read and created
type Result struct {
	Group    *types.AutoScalingGroup
	Previous *types.LaunchConfiguration
	Created  *types.LaunchConfiguration
	Refresh  *types.InstanceRefresh
}

// Runner performs the rollout steps against a provider
type Runner struct {
	Provider provider.ScalingProvider
	Printer  Printer
	Logger   *slog.Logger

	// NewBackOff builds the polling schedule used with Input.Wait
	NewBackOff func() backoff.BackOff
}

// NewRunner creates a Runner with the default polling schedule
func NewRunner(p provider.ScalingProvider, printer Printer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		Provider:   p,
		Printer:    printer,
		Logger:     logger,
		NewBackOff: DefaultBackOff,
	}
}

// Run executes the rollout. Steps run strictly in order and the first error
// aborts the run; nothing already applied is rolled back.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	res := &Result{}

	// Step 1: find the launch configuration currently attached to the group
	group, err := r.Provider.DescribeAutoScalingGroup(in.GroupName)
	if err != nil {
		return res, err
	}
	res.Group = group
	if err := r.printStep("DescribeAutoScalingGroups", group); err != nil {
		return res, err
	}

	if group.LaunchConfiguration == "" {
		if group.LaunchTemplate != "" {
			return res, fmt.Errorf("%w: %q launches from template %q", ErrNoLaunchConfiguration, group.Name, group.LaunchTemplate)
		}
		return res, fmt.Errorf("%w: %q", ErrNoLaunchConfiguration, group.Name)
	}

	// Step 2: read the fields the new configuration inherits
	current, err := r.Provider.DescribeLaunchConfiguration(group.LaunchConfiguration)
	if err != nil {
		return res, err
	}
	res.Previous = current
	if err := r.printStep("DescribeLaunchConfigurations", current); err != nil {
		return res, err
	}

	next := current.Clone(in.LaunchConfigurationName, in.ImageID)

	if in.DryRun {
		r.Logger.Info("dry run, no changes made",
			"group", group.Name,
			"launch_configuration", next.Name,
			"image_id", next.ImageID,
		)
		return res, r.printStep("CreateLaunchConfiguration (dry run)", &next)
	}

	// Step 3: create the clone with the new image
	if err := r.Provider.CreateLaunchConfiguration(&next); err != nil {
		return res, err
	}
	res.Created = &next
	r.Logger.Info("created launch configuration", "name", next.Name, "image_id", next.ImageID)
	if err := r.printStep("CreateLaunchConfiguration", &next); err != nil {
		return res, err
	}

	// Step 4: attach it to the group
	if err := r.Provider.SetLaunchConfiguration(group.Name, next.Name); err != nil {
		return res, err
	}
	group.LaunchConfiguration = next.Name
	r.Logger.Info("updated auto scaling group", "group", group.Name, "launch_configuration", next.Name)
	if err := r.printStep("UpdateAutoScalingGroup", group); err != nil {
		return res, err
	}

	if !in.InstanceRefresh {
		return res, nil
	}

	// Step 5: replace running instances
	refreshID, err := r.Provider.StartInstanceRefresh(group.Name, in.Preferences)
	if err != nil {
		return res, err
	}
	r.Logger.Info("started instance refresh", "group", group.Name, "refresh_id", refreshID)
	if err := r.printStep("StartInstanceRefresh", map[string]string{"instance_refresh_id": refreshID}); err != nil {
		return res, err
	}

	var refresh *types.InstanceRefresh
	if in.Wait {
		refresh, err = r.waitForRefresh(ctx, group.Name, refreshID)
	} else {
		refresh, err = r.Provider.DescribeInstanceRefresh(group.Name, refreshID)
		if errors.Is(err, provider.ErrNotFound) {
			// The refresh was accepted, it may not be listed yet
			r.Logger.Warn("instance refresh not listed yet", "group", group.Name, "refresh_id", refreshID)
			return res, r.printStep("DescribeInstanceRefreshes", map[string][]string{"instance_refreshes": {}})
		}
	}
	if refresh != nil {
		res.Refresh = refresh
		if perr := r.printStep("DescribeInstanceRefreshes", refresh); perr != nil && err == nil {
			err = perr
		}
	}

	return res, err
}

func (r *Runner) printStep(title string, v any) error {
	if r.Printer == nil {
		return nil
	}
	if err := r.Printer.Step(title, v); err != nil {
		return fmt.Errorf("failed to print %s: %w", title, err)
	}
	return nil
}
