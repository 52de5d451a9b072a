package aws

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"

	"github.com/vietdv277/asgroll/pkg/provider"
	pkgtypes "github.com/vietdv277/asgroll/pkg/types"
)

// DescribeAutoScalingGroup returns a single ASG by name
func (c *Client) DescribeAutoScalingGroup(name string) (*pkgtypes.AutoScalingGroup, error) {
	output, err := c.ASG.DescribeAutoScalingGroups(c.ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{name},
	})
	if err != nil {
		return nil, wrapAPIError("describe auto scaling group", err)
	}

	if len(output.AutoScalingGroups) == 0 {
		return nil, fmt.Errorf("auto scaling group %q: %w", name, provider.ErrNotFound)
	}

	asg := toAutoScalingGroup(output.AutoScalingGroups[0])
	return &asg, nil
}

// SetLaunchConfiguration points an ASG at the named launch configuration.
// Instances already running keep their old configuration until replaced.
func (c *Client) SetLaunchConfiguration(groupName, launchConfigurationName string) error {
	_, err := c.ASG.UpdateAutoScalingGroup(c.ctx, &autoscaling.UpdateAutoScalingGroupInput{
		AutoScalingGroupName:    aws.String(groupName),
		LaunchConfigurationName: aws.String(launchConfigurationName),
	})
	if err != nil {
		return wrapAPIError("update auto scaling group", err)
	}

	return nil
}

// toAutoScalingGroup converts an AWS ASG type to our internal type
func toAutoScalingGroup(g asgtypes.AutoScalingGroup) pkgtypes.AutoScalingGroup {
	asg := pkgtypes.AutoScalingGroup{
		Name:                deref(g.AutoScalingGroupName),
		ARN:                 deref(g.AutoScalingGroupARN),
		LaunchConfiguration: deref(g.LaunchConfigurationName),
		DesiredCapacity:     int(deref32(g.DesiredCapacity)),
		MinSize:             int(deref32(g.MinSize)),
		MaxSize:             int(deref32(g.MaxSize)),
		InstanceCount:       len(g.Instances),
		Status:              deref(g.Status),
		CreatedTime:         derefTime(g.CreatedTime),
		AZs:                 g.AvailabilityZones,
	}

	// Groups moved to launch templates have no launch configuration
	if g.LaunchTemplate != nil {
		asg.LaunchTemplate = deref(g.LaunchTemplate.LaunchTemplateName)
	} else if g.MixedInstancesPolicy != nil && g.MixedInstancesPolicy.LaunchTemplate != nil {
		if g.MixedInstancesPolicy.LaunchTemplate.LaunchTemplateSpecification != nil {
			asg.LaunchTemplate = deref(g.MixedInstancesPolicy.LaunchTemplate.LaunchTemplateSpecification.LaunchTemplateName)
		}
	}

	// Status is only set while the group is being deleted
	if asg.Status == "" {
		asg.Status = "InService"
	}

	return asg
}
