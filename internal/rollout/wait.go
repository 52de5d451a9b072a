package rollout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vietdv277/asgroll/pkg/types"
)

var errRefreshInProgress = errors.New("instance refresh still in progress")

// DefaultBackOff polls every 15s at first, backing off to once a minute, and
// gives up after two hours
func DefaultBackOff() backoff.BackOff {
	return BackOffWithTimeout(0)()
}

// BackOffWithTimeout returns a polling schedule like DefaultBackOff that
// gives up after timeout. A zero timeout keeps the default.
func BackOffWithTimeout(timeout time.Duration) func() backoff.BackOff {
	return func() backoff.BackOff {
		bo := backoff.NewExponentialBackOff()
		bo.InitialInterval = 15 * time.Second
		bo.MaxInterval = time.Minute
		bo.MaxElapsedTime = 2 * time.Hour
		if timeout > 0 {
			bo.MaxElapsedTime = timeout
		}
		return bo
	}
}

// waitForRefresh describes the refresh until it reaches a final status
func (r *Runner) waitForRefresh(ctx context.Context, groupName, refreshID string) (*types.InstanceRefresh, error) {
	newBackOff := r.NewBackOff
	if newBackOff == nil {
		newBackOff = DefaultBackOff
	}

	var last *types.InstanceRefresh
	operation := func() error {
		refresh, err := r.Provider.DescribeInstanceRefresh(groupName, refreshID)
		if err != nil {
			return backoff.Permanent(err)
		}
		last = refresh

		if !refresh.Done() {
			r.Logger.Info("waiting for instance refresh",
				"refresh_id", refreshID,
				"status", refresh.Status,
				"percent_complete", refresh.PercentageComplete,
			)
			return errRefreshInProgress
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(newBackOff(), ctx)); err != nil {
		if errors.Is(err, errRefreshInProgress) {
			return last, fmt.Errorf("gave up waiting for instance refresh %s: %w", refreshID, err)
		}
		return last, err
	}

	if !last.Succeeded() {
		if last.StatusReason != "" {
			return last, fmt.Errorf("%w: %s finished with status %s: %s", ErrRefreshFailed, refreshID, last.Status, last.StatusReason)
		}
		return last, fmt.Errorf("%w: %s finished with status %s", ErrRefreshFailed, refreshID, last.Status)
	}

	r.Logger.Info("instance refresh finished", "refresh_id", refreshID, "status", last.Status)
	return last, nil
}
