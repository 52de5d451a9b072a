package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"

	"github.com/vietdv277/asgroll/pkg/provider"
	pkgtypes "github.com/vietdv277/asgroll/pkg/types"
)

// DescribeLaunchConfiguration returns a single launch configuration by name
func (c *Client) DescribeLaunchConfiguration(name string) (*pkgtypes.LaunchConfiguration, error) {
	output, err := c.ASG.DescribeLaunchConfigurations(c.ctx, &autoscaling.DescribeLaunchConfigurationsInput{
		LaunchConfigurationNames: []string{name},
	})
	if err != nil {
		return nil, wrapAPIError("describe launch configuration", err)
	}

	if len(output.LaunchConfigurations) == 0 {
		return nil, fmt.Errorf("launch configuration %q: %w", name, provider.ErrNotFound)
	}

	lc := toLaunchConfiguration(output.LaunchConfigurations[0])
	return &lc, nil
}

// CreateLaunchConfiguration creates a launch configuration from the image,
// instance type, key pair and security groups of lc
func (c *Client) CreateLaunchConfiguration(lc *pkgtypes.LaunchConfiguration) error {
	input := &autoscaling.CreateLaunchConfigurationInput{
		LaunchConfigurationName: aws.String(lc.Name),
		ImageId:                 aws.String(lc.ImageID),
		InstanceType:            aws.String(lc.InstanceType),
		SecurityGroups:          lc.SecurityGroups,
	}

	// An empty key name is rejected by the API, omit it instead
	if lc.KeyName != "" {
		input.KeyName = aws.String(lc.KeyName)
	}

	_, err := c.ASG.CreateLaunchConfiguration(c.ctx, input)
	if err != nil {
		if errorCode(err) == "AlreadyExists" {
			return fmt.Errorf("launch configuration %q: %w", lc.Name, provider.ErrAlreadyExists)
		}
		return wrapAPIError("create launch configuration", err)
	}

	return nil
}

func toLaunchConfiguration(lc asgtypes.LaunchConfiguration) pkgtypes.LaunchConfiguration {
	return pkgtypes.LaunchConfiguration{
		Name:           deref(lc.LaunchConfigurationName),
		ARN:            deref(lc.LaunchConfigurationARN),
		ImageID:        deref(lc.ImageId),
		InstanceType:   deref(lc.InstanceType),
		KeyName:        deref(lc.KeyName),
		SecurityGroups: lc.SecurityGroups,
		CreatedTime:    derefTime(lc.CreatedTime),
	}
}
