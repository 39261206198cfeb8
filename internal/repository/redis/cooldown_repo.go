package redis

import (
	"context"
	"fmt"
	"time"
)

const (
	ResendCooldownPrefix = "partnership:resend:cooldown"
	DefaultResendWindow  = 5 * time.Minute
)

// CooldownRepository throttles re-delivery of invitation emails. The status
// bump itself is never throttled, only the outgoing mail.
type CooldownRepository struct{}

// TryAcquire sets the cooldown key if absent. Returns false while a previous
// resend is still inside the window.
func (r *CooldownRepository) TryAcquire(partnershipID uint64, window time.Duration) (bool, error) {
	if window <= 0 {
		window = DefaultResendWindow
	}
	key := fmt.Sprintf("%s:%d", ResendCooldownPrefix, partnershipID)
	ok, err := Client.SetNX(context.Background(), key, 1, window).Result()
	if err != nil {
		return false, ErrRedisUnavailable
	}
	return ok, nil
}
