package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// DefaultRegion is used when neither flags, environment nor shared config
// name a region
const DefaultRegion = "us-east-1"

// AutoScalingAPI is the subset of the Auto Scaling client used by this package
type AutoScalingAPI interface {
	DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error)
	DescribeLaunchConfigurations(ctx context.Context, params *autoscaling.DescribeLaunchConfigurationsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeLaunchConfigurationsOutput, error)
	CreateLaunchConfiguration(ctx context.Context, params *autoscaling.CreateLaunchConfigurationInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CreateLaunchConfigurationOutput, error)
	UpdateAutoScalingGroup(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error)
	StartInstanceRefresh(ctx context.Context, params *autoscaling.StartInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.StartInstanceRefreshOutput, error)
	DescribeInstanceRefreshes(ctx context.Context, params *autoscaling.DescribeInstanceRefreshesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeInstanceRefreshesOutput, error)
}

// STSAPI is the subset of the STS client used by this package
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client wraps AWS SDK clients
type Client struct {
	ASG AutoScalingAPI
	STS STSAPI

	ctx            context.Context
	profile        string
	region         string
	regionFallback string
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// WithRegionFallback sets the region used when none is configured anywhere
func WithRegionFallback(region string) ClientOption {
	return func(c *Client) {
		if region != "" {
			c.regionFallback = region
		}
	}
}

// WithAutoScalingAPI replaces the Auto Scaling client
func WithAutoScalingAPI(api AutoScalingAPI) ClientOption {
	return func(c *Client) {
		c.ASG = api
	}
}

// WithSTSAPI replaces the STS client
func WithSTSAPI(api STSAPI) ClientOption {
	return func(c *Client) {
		c.STS = api
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{
		ctx:            ctx,
		regionFallback: DefaultRegion,
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	// Both clients injected, nothing to load
	if c.ASG != nil && c.STS != nil {
		if c.region == "" {
			c.region = c.regionFallback
		}
		return c, nil
	}

	// Build config options
	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	// Load AWS config
	cfg, err := config.LoadDefaultConfig(c.ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	if cfg.Region == "" {
		cfg.Region = c.regionFallback
	}
	c.region = cfg.Region

	if c.ASG == nil {
		c.ASG = autoscaling.NewFromConfig(cfg)
	}
	if c.STS == nil {
		c.STS = sts.NewFromConfig(cfg)
	}

	return c, nil
}

// Context returns the client's context
func (c *Client) Context() context.Context {
	return c.ctx
}

// Region returns the region the client is bound to
func (c *Client) Region() string {
	return c.region
}

// Profile returns the shared config profile, empty for the default chain
func (c *Client) Profile() string {
	return c.profile
}
