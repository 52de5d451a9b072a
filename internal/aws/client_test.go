package aws

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/asgroll/pkg/provider"
	pkgtypes "github.com/vietdv277/asgroll/pkg/types"
)

// fakeAutoScaling returns canned outputs and keeps the last input of each call
type fakeAutoScaling struct {
	groups    []asgtypes.AutoScalingGroup
	configs   []asgtypes.LaunchConfiguration
	refreshes []asgtypes.InstanceRefresh
	refreshID *string
	err       error

	describeGroupsInput  *autoscaling.DescribeAutoScalingGroupsInput
	describeConfigsInput *autoscaling.DescribeLaunchConfigurationsInput
	createInput          *autoscaling.CreateLaunchConfigurationInput
	updateInput          *autoscaling.UpdateAutoScalingGroupInput
	startInput           *autoscaling.StartInstanceRefreshInput
	describeRefreshInput *autoscaling.DescribeInstanceRefreshesInput
}

func (f *fakeAutoScaling) DescribeAutoScalingGroups(ctx context.Context, params *autoscaling.DescribeAutoScalingGroupsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeAutoScalingGroupsOutput, error) {
	f.describeGroupsInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.DescribeAutoScalingGroupsOutput{AutoScalingGroups: f.groups}, nil
}

func (f *fakeAutoScaling) DescribeLaunchConfigurations(ctx context.Context, params *autoscaling.DescribeLaunchConfigurationsInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeLaunchConfigurationsOutput, error) {
	f.describeConfigsInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.DescribeLaunchConfigurationsOutput{LaunchConfigurations: f.configs}, nil
}

func (f *fakeAutoScaling) CreateLaunchConfiguration(ctx context.Context, params *autoscaling.CreateLaunchConfigurationInput, optFns ...func(*autoscaling.Options)) (*autoscaling.CreateLaunchConfigurationOutput, error) {
	f.createInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.CreateLaunchConfigurationOutput{}, nil
}

func (f *fakeAutoScaling) UpdateAutoScalingGroup(ctx context.Context, params *autoscaling.UpdateAutoScalingGroupInput, optFns ...func(*autoscaling.Options)) (*autoscaling.UpdateAutoScalingGroupOutput, error) {
	f.updateInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.UpdateAutoScalingGroupOutput{}, nil
}

func (f *fakeAutoScaling) StartInstanceRefresh(ctx context.Context, params *autoscaling.StartInstanceRefreshInput, optFns ...func(*autoscaling.Options)) (*autoscaling.StartInstanceRefreshOutput, error) {
	f.startInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.StartInstanceRefreshOutput{InstanceRefreshId: f.refreshID}, nil
}

func (f *fakeAutoScaling) DescribeInstanceRefreshes(ctx context.Context, params *autoscaling.DescribeInstanceRefreshesInput, optFns ...func(*autoscaling.Options)) (*autoscaling.DescribeInstanceRefreshesOutput, error) {
	f.describeRefreshInput = params
	if f.err != nil {
		return nil, f.err
	}
	return &autoscaling.DescribeInstanceRefreshesOutput{InstanceRefreshes: f.refreshes}, nil
}

type fakeSTS struct {
	output *sts.GetCallerIdentityOutput
	err    error
}

func (f *fakeSTS) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.output, nil
}

func newTestClient(t *testing.T, asg *fakeAutoScaling, stsAPI *fakeSTS) *Client {
	t.Helper()
	if stsAPI == nil {
		stsAPI = &fakeSTS{}
	}
	c, err := NewClient(context.Background(), WithAutoScalingAPI(asg), WithSTSAPI(stsAPI))
	require.NoError(t, err)
	return c
}

func TestNewClientInjectedUsesFallbackRegion(t *testing.T) {
	c, err := NewClient(context.Background(),
		WithAutoScalingAPI(&fakeAutoScaling{}),
		WithSTSAPI(&fakeSTS{}),
		WithRegionFallback("eu-west-1"),
	)
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", c.Region())

	c, err = NewClient(context.Background(),
		WithAutoScalingAPI(&fakeAutoScaling{}),
		WithSTSAPI(&fakeSTS{}),
		WithRegion("ap-south-1"),
	)
	require.NoError(t, err)
	assert.Equal(t, "ap-south-1", c.Region())
}

func TestNewClientDefaultsRegion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")

	c, err := NewClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, c.Region())
	assert.NotNil(t, c.ASG)
	assert.NotNil(t, c.STS)
}

func TestDescribeAutoScalingGroup(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	api := &fakeAutoScaling{
		groups: []asgtypes.AutoScalingGroup{{
			AutoScalingGroupName:    aws.String("web"),
			AutoScalingGroupARN:     aws.String("arn:web"),
			LaunchConfigurationName: aws.String("web-v1"),
			DesiredCapacity:         aws.Int32(3),
			MinSize:                 aws.Int32(1),
			MaxSize:                 aws.Int32(5),
			CreatedTime:             &created,
			AvailabilityZones:       []string{"us-east-1a", "us-east-1b"},
			Instances:               []asgtypes.Instance{{InstanceId: aws.String("i-1")}, {InstanceId: aws.String("i-2")}},
		}},
	}
	c := newTestClient(t, api, nil)

	asg, err := c.DescribeAutoScalingGroup("web")
	require.NoError(t, err)

	assert.Equal(t, []string{"web"}, api.describeGroupsInput.AutoScalingGroupNames)
	assert.Equal(t, "web", asg.Name)
	assert.Equal(t, "web-v1", asg.LaunchConfiguration)
	assert.Equal(t, 3, asg.DesiredCapacity)
	assert.Equal(t, 1, asg.MinSize)
	assert.Equal(t, 5, asg.MaxSize)
	assert.Equal(t, 2, asg.InstanceCount)
	assert.Equal(t, "InService", asg.Status)
	assert.Equal(t, created, asg.CreatedTime)
}

func TestDescribeAutoScalingGroupLaunchTemplate(t *testing.T) {
	api := &fakeAutoScaling{
		groups: []asgtypes.AutoScalingGroup{{
			AutoScalingGroupName: aws.String("web"),
			MixedInstancesPolicy: &asgtypes.MixedInstancesPolicy{
				LaunchTemplate: &asgtypes.LaunchTemplate{
					LaunchTemplateSpecification: &asgtypes.LaunchTemplateSpecification{
						LaunchTemplateName: aws.String("web-lt"),
					},
				},
			},
		}},
	}
	c := newTestClient(t, api, nil)

	asg, err := c.DescribeAutoScalingGroup("web")
	require.NoError(t, err)
	assert.Empty(t, asg.LaunchConfiguration)
	assert.Equal(t, "web-lt", asg.LaunchTemplate)
}

func TestDescribeAutoScalingGroupNotFound(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, nil)

	_, err := c.DescribeAutoScalingGroup("missing")
	assert.ErrorIs(t, err, provider.ErrNotFound)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestDescribeAutoScalingGroupAPIError(t *testing.T) {
	apiErr := &smithy.GenericAPIError{Code: "AccessDenied", Message: "not allowed"}
	c := newTestClient(t, &fakeAutoScaling{err: apiErr}, nil)

	_, err := c.DescribeAutoScalingGroup("web")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Contains(t, err.Error(), "failed to describe auto scaling group")
}

func TestDescribeLaunchConfiguration(t *testing.T) {
	api := &fakeAutoScaling{
		configs: []asgtypes.LaunchConfiguration{{
			LaunchConfigurationName: aws.String("web-v1"),
			ImageId:                 aws.String("ami-old"),
			InstanceType:            aws.String("m5.large"),
			KeyName:                 aws.String("deploy"),
			SecurityGroups:          []string{"sg-1"},
		}},
	}
	c := newTestClient(t, api, nil)

	lc, err := c.DescribeLaunchConfiguration("web-v1")
	require.NoError(t, err)

	assert.Equal(t, []string{"web-v1"}, api.describeConfigsInput.LaunchConfigurationNames)
	assert.Equal(t, pkgtypes.LaunchConfiguration{
		Name:           "web-v1",
		ImageID:        "ami-old",
		InstanceType:   "m5.large",
		KeyName:        "deploy",
		SecurityGroups: []string{"sg-1"},
	}, *lc)
}

func TestDescribeLaunchConfigurationNotFound(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, nil)

	_, err := c.DescribeLaunchConfiguration("web-v1")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestCreateLaunchConfiguration(t *testing.T) {
	api := &fakeAutoScaling{}
	c := newTestClient(t, api, nil)

	err := c.CreateLaunchConfiguration(&pkgtypes.LaunchConfiguration{
		Name:           "web-v2",
		ImageID:        "ami-new",
		InstanceType:   "m5.large",
		KeyName:        "deploy",
		SecurityGroups: []string{"sg-1", "sg-2"},
	})
	require.NoError(t, err)

	in := api.createInput
	require.NotNil(t, in)
	assert.Equal(t, "web-v2", aws.ToString(in.LaunchConfigurationName))
	assert.Equal(t, "ami-new", aws.ToString(in.ImageId))
	assert.Equal(t, "m5.large", aws.ToString(in.InstanceType))
	assert.Equal(t, "deploy", aws.ToString(in.KeyName))
	assert.Equal(t, []string{"sg-1", "sg-2"}, in.SecurityGroups)
}

func TestCreateLaunchConfigurationWithoutKey(t *testing.T) {
	api := &fakeAutoScaling{}
	c := newTestClient(t, api, nil)

	err := c.CreateLaunchConfiguration(&pkgtypes.LaunchConfiguration{Name: "web-v2", ImageID: "ami-new", InstanceType: "t3.micro"})
	require.NoError(t, err)
	assert.Nil(t, api.createInput.KeyName)
}

func TestCreateLaunchConfigurationAlreadyExists(t *testing.T) {
	api := &fakeAutoScaling{err: &smithy.GenericAPIError{Code: "AlreadyExists", Message: "Launch Configuration by this name already exists"}}
	c := newTestClient(t, api, nil)

	err := c.CreateLaunchConfiguration(&pkgtypes.LaunchConfiguration{Name: "web-v2"})
	assert.ErrorIs(t, err, provider.ErrAlreadyExists)
	assert.Contains(t, err.Error(), `"web-v2"`)
}

func TestSetLaunchConfiguration(t *testing.T) {
	api := &fakeAutoScaling{}
	c := newTestClient(t, api, nil)

	require.NoError(t, c.SetLaunchConfiguration("web", "web-v2"))
	assert.Equal(t, "web", aws.ToString(api.updateInput.AutoScalingGroupName))
	assert.Equal(t, "web-v2", aws.ToString(api.updateInput.LaunchConfigurationName))
	assert.Nil(t, api.updateInput.DesiredCapacity)
}

func TestStartInstanceRefresh(t *testing.T) {
	api := &fakeAutoScaling{refreshID: aws.String("refresh-1")}
	c := newTestClient(t, api, nil)

	id, err := c.StartInstanceRefresh("web", pkgtypes.DefaultRefreshPreferences())
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", id)

	in := api.startInput
	assert.Equal(t, "web", aws.ToString(in.AutoScalingGroupName))
	assert.Equal(t, asgtypes.RefreshStrategyRolling, in.Strategy)
	assert.Equal(t, []int32{50, 100}, in.Preferences.CheckpointPercentages)
	assert.Equal(t, int32(80), aws.ToInt32(in.Preferences.MinHealthyPercentage))
}

func TestStartInstanceRefreshMissingID(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, nil)

	_, err := c.StartInstanceRefresh("web", pkgtypes.DefaultRefreshPreferences())
	assert.Error(t, err)
}

func TestDescribeInstanceRefresh(t *testing.T) {
	api := &fakeAutoScaling{
		refreshes: []asgtypes.InstanceRefresh{{
			InstanceRefreshId:    aws.String("refresh-1"),
			AutoScalingGroupName: aws.String("web"),
			Status:               asgtypes.InstanceRefreshStatusInProgress,
			StatusReason:         aws.String("Waiting for instances to warm up"),
			PercentageComplete:   aws.Int32(40),
			InstancesToUpdate:    aws.Int32(3),
		}},
	}
	c := newTestClient(t, api, nil)

	refresh, err := c.DescribeInstanceRefresh("web", "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "web", aws.ToString(api.describeRefreshInput.AutoScalingGroupName))
	assert.Equal(t, []string{"refresh-1"}, api.describeRefreshInput.InstanceRefreshIds)
	assert.Equal(t, "refresh-1", refresh.ID)
	assert.Equal(t, pkgtypes.RefreshStatusInProgress, refresh.Status)
	assert.Equal(t, 40, refresh.PercentageComplete)
	assert.Equal(t, 3, refresh.InstancesToUpdate)
	assert.False(t, refresh.Done())
}

func TestDescribeInstanceRefreshNotFound(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, nil)

	_, err := c.DescribeInstanceRefresh("web", "refresh-1")
	assert.ErrorIs(t, err, provider.ErrNotFound)
}

func TestGetCallerIdentity(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, &fakeSTS{output: &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/deploy"),
		UserId:  aws.String("AIDAEXAMPLE"),
	}})

	id, err := c.GetCallerIdentity()
	require.NoError(t, err)
	assert.Equal(t, "123456789012", id.Account)
	assert.Equal(t, "AIDAEXAMPLE", id.UserID)
}

func TestGetCallerIdentityAuthFailed(t *testing.T) {
	c := newTestClient(t, &fakeAutoScaling{}, &fakeSTS{err: &smithy.GenericAPIError{Code: "ExpiredToken"}})

	_, err := c.GetCallerIdentity()
	assert.ErrorIs(t, err, provider.ErrAuthFailed)

	c = newTestClient(t, &fakeAutoScaling{}, &fakeSTS{err: errors.New("dial tcp: timeout")})
	_, err = c.GetCallerIdentity()
	assert.NotErrorIs(t, err, provider.ErrAuthFailed)
}
