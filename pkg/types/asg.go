package types

import "time"

// AutoScalingGroup represents an AWS Auto Scaling Group
type AutoScalingGroup struct {
	Name                string    `yaml:"name"`
	ARN                 string    `yaml:"arn,omitempty"`
	LaunchConfiguration string    `yaml:"launch_configuration,omitempty"`
	LaunchTemplate      string    `yaml:"launch_template,omitempty"`
	DesiredCapacity     int       `yaml:"desired_capacity"`
	MinSize             int       `yaml:"min_size"`
	MaxSize             int       `yaml:"max_size"`
	InstanceCount       int       `yaml:"instance_count"` // instances currently attached
	Status              string    `yaml:"status,omitempty"`
	CreatedTime         time.Time `yaml:"created_time,omitempty"`
	AZs                 []string  `yaml:"availability_zones,omitempty"`
}

// LaunchConfiguration represents an AWS launch configuration.
// Launch configurations are immutable once created.
type LaunchConfiguration struct {
	Name           string    `yaml:"name"`
	ARN            string    `yaml:"arn,omitempty"`
	ImageID        string    `yaml:"image_id"`
	InstanceType   string    `yaml:"instance_type"`
	KeyName        string    `yaml:"key_name,omitempty"`
	SecurityGroups []string  `yaml:"security_groups,omitempty"`
	CreatedTime    time.Time `yaml:"created_time,omitempty"`
}

// Clone returns a copy of the launch configuration under a new name and image.
// Provider assigned fields (ARN, creation time) are not carried over.
func (lc LaunchConfiguration) Clone(name, imageID string) LaunchConfiguration {
	var groups []string
	if lc.SecurityGroups != nil {
		groups = make([]string, len(lc.SecurityGroups))
		copy(groups, lc.SecurityGroups)
	}

	return LaunchConfiguration{
		Name:           name,
		ImageID:        imageID,
		InstanceType:   lc.InstanceType,
		KeyName:        lc.KeyName,
		SecurityGroups: groups,
	}
}
