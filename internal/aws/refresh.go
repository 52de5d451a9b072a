package aws

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"

	"github.com/vietdv277/asgroll/pkg/provider"
	pkgtypes "github.com/vietdv277/asgroll/pkg/types"
)

// StartInstanceRefresh starts a rolling instance refresh and returns its ID
func (c *Client) StartInstanceRefresh(groupName string, prefs pkgtypes.RefreshPreferences) (string, error) {
	checkpoints := make([]int32, 0, len(prefs.CheckpointPercentages))
	for _, p := range prefs.CheckpointPercentages {
		checkpoints = append(checkpoints, int32(p))
	}

	refreshInput := &autoscaling.StartInstanceRefreshInput{
		AutoScalingGroupName: aws.String(groupName),
		Strategy:             asgtypes.RefreshStrategyRolling,
		Preferences: &asgtypes.RefreshPreferences{
			CheckpointPercentages: checkpoints,
			MinHealthyPercentage:  aws.Int32(int32(prefs.MinHealthyPercentage)),
		},
	}

	output, err := c.ASG.StartInstanceRefresh(c.ctx, refreshInput)
	if err != nil {
		return "", wrapAPIError("start instance refresh", err)
	}

	if output.InstanceRefreshId == nil {
		return "", errors.New("start instance refresh returned no refresh ID")
	}

	return *output.InstanceRefreshId, nil
}

// DescribeInstanceRefresh returns the state of a single instance refresh
func (c *Client) DescribeInstanceRefresh(groupName, refreshID string) (*pkgtypes.InstanceRefresh, error) {
	output, err := c.ASG.DescribeInstanceRefreshes(c.ctx, &autoscaling.DescribeInstanceRefreshesInput{
		AutoScalingGroupName: aws.String(groupName),
		InstanceRefreshIds:   []string{refreshID},
	})
	if err != nil {
		return nil, wrapAPIError("describe instance refresh", err)
	}

	if len(output.InstanceRefreshes) == 0 {
		return nil, fmt.Errorf("instance refresh %q: %w", refreshID, provider.ErrNotFound)
	}

	refresh := toInstanceRefresh(output.InstanceRefreshes[0])
	return &refresh, nil
}

func toInstanceRefresh(r asgtypes.InstanceRefresh) pkgtypes.InstanceRefresh {
	return pkgtypes.InstanceRefresh{
		ID:                 deref(r.InstanceRefreshId),
		GroupName:          deref(r.AutoScalingGroupName),
		Status:             string(r.Status),
		StatusReason:       deref(r.StatusReason),
		PercentageComplete: int(deref32(r.PercentageComplete)),
		InstancesToUpdate:  int(deref32(r.InstancesToUpdate)),
		StartTime:          derefTime(r.StartTime),
		EndTime:            derefTime(r.EndTime),
	}
}
