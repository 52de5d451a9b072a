package provider

import (
	"errors"

	"github.com/vietdv277/asgroll/pkg/types"
)

// Common errors
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrAuthFailed    = errors.New("authentication failed")
)

// ScalingProvider defines the operations a launch configuration rollout needs
type ScalingProvider interface {
	// DescribeAutoScalingGroup returns a group by name
	DescribeAutoScalingGroup(name string) (*types.AutoScalingGroup, error)

	// DescribeLaunchConfiguration returns a launch configuration by name
	DescribeLaunchConfiguration(name string) (*types.LaunchConfiguration, error)

	// CreateLaunchConfiguration creates a new launch configuration
	CreateLaunchConfiguration(lc *types.LaunchConfiguration) error

	// SetLaunchConfiguration points a group at a launch configuration
	SetLaunchConfiguration(groupName, launchConfigurationName string) error

	// StartInstanceRefresh starts a rolling refresh and returns its ID
	StartInstanceRefresh(groupName string, prefs types.RefreshPreferences) (string, error)

	// DescribeInstanceRefresh returns the current state of a refresh
	DescribeInstanceRefresh(groupName, refreshID string) (*types.InstanceRefresh, error)
}

// IdentityProvider resolves the principal behind the active credentials
type IdentityProvider interface {
	GetCallerIdentity() (*types.CallerIdentity, error)
}
