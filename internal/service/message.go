package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/oggyb/chuanglan-sms/internal/cache"
	domain "github.com/oggyb/chuanglan-sms/internal/domain/message"
	"github.com/oggyb/chuanglan-sms/internal/sms"
)

const (
	dayLayout = "20060102"
	// sent counters outlive the day they count so yesterday stays readable.
	sentCountTTL = 48 * time.Hour
)

var quotaKey = cache.Quota.Key("remaining")

// SendCommand is a request to message a list of recipients.
type SendCommand struct {
	Recipients []string
	Content    string
	Options    sms.SendOptions
}

type MessageService interface {
	Send(ctx context.Context, cmd SendCommand) (*domain.Dispatch, error)
	Quota(ctx context.Context) (*domain.Quota, error)
	SentCount(ctx context.Context, day time.Time) (int64, error)
	RefreshQuota(ctx context.Context) error
}

type messageService struct {
	smsClient sms.Client
	cache     cache.Cache

	quotaTTL     time.Duration
	lowWatermark int
}

// NewMessageService creates a message service. cache may be nil, in which
// case quota is always read from the gateway and no counters are kept.
// A quotaTTL <= 0 disables quota caching.
func NewMessageService(
	smsClient sms.Client,
	cache cache.Cache,
	quotaTTL time.Duration,
	lowWatermark int,
) MessageService {
	return &messageService{
		smsClient:    smsClient,
		cache:        cache,
		quotaTTL:     quotaTTL,
		lowWatermark: lowWatermark,
	}
}

// Send hands the message to the gateway and reports the outcome as a
// Dispatch. The Dispatch is returned on failure too.
func (s *messageService) Send(ctx context.Context, cmd SendCommand) (*domain.Dispatch, error) {
	recipients := sms.NormalizeRecipients(cmd.Recipients)
	d := domain.NewDispatch(recipients, cmd.Content, sms.MaxRecipientsPerBatch)
	id := d.ID.String()

	if err := s.smsClient.Send(ctx, cmd.Content, recipients, cmd.Options); err != nil {
		log.Printf("[Service] Dispatch %s to %d recipients failed: %v", id, len(recipients), err)
		d.MarkFailed(err)
		return d, fmt.Errorf("send dispatch %s: %w", id, err)
	}

	d.MarkSent()
	log.Printf("[Service] Dispatch %s sent to %d recipients in %d batch(es).", id, len(recipients), d.Batches)

	if s.cache != nil {
		key := cache.SentMessages.Key(d.SentAt.Format(dayLayout))
		if _, err := s.cache.IncrBy(ctx, key, int64(len(recipients)), sentCountTTL); err != nil {
			log.Printf("[Service] Failed to count dispatch %s: %v", id, err)
		}
		// The gateway has just spent quota, so the cached value is stale.
		if err := s.cache.Del(ctx, quotaKey); err != nil {
			log.Printf("[Service] Failed to invalidate cached quota: %v", err)
		}
	}

	return d, nil
}

// Quota returns the remaining quota, from the cache when possible.
func (s *messageService) Quota(ctx context.Context) (*domain.Quota, error) {
	if q, ok := s.cachedQuota(ctx); ok {
		return q, nil
	}
	return s.fetchQuota(ctx)
}

// SentCount returns how many recipients were messaged on day.
func (s *messageService) SentCount(ctx context.Context, day time.Time) (int64, error) {
	if s.cache == nil {
		return 0, nil
	}

	v, err := s.cache.Get(ctx, cache.SentMessages.Key(day.Format(dayLayout)))
	if errors.Is(err, cache.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read sent count: %w", err)
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt sent count %q: %w", v, err)
	}
	return n, nil
}

// RefreshQuota reads the quota from the gateway, updates the cache and
// warns when the account is running low.
func (s *messageService) RefreshQuota(ctx context.Context) error {
	q, err := s.fetchQuota(ctx)
	if err != nil {
		return err
	}

	if q.Remaining < s.lowWatermark {
		log.Printf("[Service] Quota is running low: %d remaining (watermark %d).", q.Remaining, s.lowWatermark)
	} else {
		log.Printf("[Service] Quota refreshed: %d remaining.", q.Remaining)
	}
	return nil
}

func (s *messageService) fetchQuota(ctx context.Context) (*domain.Quota, error) {
	remaining, err := s.smsClient.QueryQuota(ctx)
	if err != nil {
		return nil, fmt.Errorf("query quota: %w", err)
	}

	q := &domain.Quota{
		Remaining: remaining,
		CheckedAt: time.Now(),
	}

	if s.cache != nil && s.quotaTTL > 0 {
		value := fmt.Sprintf("%d|%d", q.Remaining, q.CheckedAt.Unix())
		if err := s.cache.Set(ctx, quotaKey, value, s.quotaTTL); err != nil {
			log.Printf("[Service] Failed to cache quota: %v", err)
		}
	}

	return q, nil
}

func (s *messageService) cachedQuota(ctx context.Context) (*domain.Quota, bool) {
	if s.cache == nil || s.quotaTTL <= 0 {
		return nil, false
	}

	v, err := s.cache.Get(ctx, quotaKey)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			log.Printf("[Service] Failed to read cached quota: %v", err)
		}
		return nil, false
	}

	var remaining int
	var checkedAt int64
	if _, err := fmt.Sscanf(v, "%d|%d", &remaining, &checkedAt); err != nil {
		log.Printf("[Service] Ignoring corrupt cached quota %q: %v", v, err)
		return nil, false
	}

	return &domain.Quota{
		Remaining: remaining,
		CheckedAt: time.Unix(checkedAt, 0),
		Cached:    true,
	}, true
}
