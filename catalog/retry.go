// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// maxRetryDelay caps the backoff between two attempts.
const maxRetryDelay = 5 * time.Second

// RetryPolicy retries failed staff directory requests with exponential
// backoff. Only errors accepted by Retryable are retried.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration         // doubled after every failed attempt, capped at 5s
	Retryable   func(err error) bool // nil means IsRetryable
	Logger      *slog.Logger         // nil means slog.Default()
}

// DefaultRetryPolicy returns the policy used by staff sources.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultRetryDelay,
		Retryable:   IsRetryable,
	}
}

// IsRetryable reports whether a failed staff request may succeed when
// repeated. Cancellation, undecodable responses and client errors such
// as 401 or 404 are final.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrInvalidResponse) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}

// Do runs op until it succeeds, returns a final error, the attempts run
// out or ctx is done. The error of the last attempt is returned.
func (p RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	delay := min(p.BaseDelay, maxRetryDelay)
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		switch {
		case err == nil:
			if attempt > 1 {
				logger.Debug("staff request succeeded after retry", "attempt", attempt)
			}
			return nil
		case !retryable(err):
			logger.Debug("staff request failed permanently", "attempt", attempt, "err", err)
			return err
		case attempt == p.MaxAttempts:
			logger.Warn("staff request failed, giving up", "attempts", attempt, "err", err)
			return err
		}

		logger.Debug("staff request failed, retrying", "attempt", attempt, "delay", delay, "err", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, maxRetryDelay)
	}
}
