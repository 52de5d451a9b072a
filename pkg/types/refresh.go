package types

import "time"

// Instance refresh statuses reported by the Auto Scaling API
const (
	RefreshStatusPending            = "Pending"
	RefreshStatusInProgress         = "InProgress"
	RefreshStatusSuccessful         = "Successful"
	RefreshStatusFailed             = "Failed"
	RefreshStatusCancelling         = "Cancelling"
	RefreshStatusCancelled          = "Cancelled"
	RefreshStatusRollbackInProgress = "RollbackInProgress"
	RefreshStatusRollbackFailed     = "RollbackFailed"
	RefreshStatusRollbackSuccessful = "RollbackSuccessful"
	RefreshStatusBaking             = "Baking"
)

// RefreshPreferences controls how an instance refresh replaces instances
type RefreshPreferences struct {
	CheckpointPercentages []int `yaml:"checkpoint_percentages,omitempty"`
	MinHealthyPercentage  int   `yaml:"min_healthy_percentage"`
}

// DefaultRefreshPreferences returns checkpoints at 50% and 100% with 80% of
// capacity kept healthy.
func DefaultRefreshPreferences() RefreshPreferences {
	return RefreshPreferences{
		CheckpointPercentages: []int{50, 100},
		MinHealthyPercentage:  80,
	}
}

// InstanceRefresh represents a rolling replacement of a group's instances
type InstanceRefresh struct {
	ID                 string    `yaml:"id"`
	GroupName          string    `yaml:"auto_scaling_group_name"`
	Status             string    `yaml:"status"`
	StatusReason       string    `yaml:"status_reason,omitempty"`
	PercentageComplete int       `yaml:"percentage_complete"`
	InstancesToUpdate  int       `yaml:"instances_to_update"`
	StartTime          time.Time `yaml:"start_time,omitempty"`
	EndTime            time.Time `yaml:"end_time,omitempty"`
}

// Done reports whether the refresh reached a status it will not leave
func (r *InstanceRefresh) Done() bool {
	switch r.Status {
	case RefreshStatusSuccessful,
		RefreshStatusFailed,
		RefreshStatusCancelled,
		RefreshStatusRollbackFailed,
		RefreshStatusRollbackSuccessful:
		return true
	}
	return false
}

// Succeeded reports whether the refresh finished replacing every instance
func (r *InstanceRefresh) Succeeded() bool {
	return r.Status == RefreshStatusSuccessful
}
