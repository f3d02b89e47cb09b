package mqhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	mqcontracts "focusboard/contracts/mq"
	"focusboard/internal/service/priority"
	"focusboard/pkg/logger"
	"focusboard/pkg/metrics"
	"focusboard/pkg/util"
)

const digestHandlerName = "priority_digest"

type Ranker interface {
	GetTopPriorityItems(ctx context.Context, userID int, now time.Time, opts priority.Options) priority.Result
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Deduper interface {
	AcquireOnce(ctx context.Context, handler, key string) bool
	Release(ctx context.Context, handler, key string)
}

type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// DigestHandler turns priority.digest_requested into one notification.created
// message per user per day.
type DigestHandler struct {
	ranker     Ranker
	publisher  Publisher
	deduper    Deduper
	retries    RetryCounter
	maxRetries int64
	maxLimit   int
	loc        *time.Location
	now        func() time.Time
	logger     *zap.Logger
}

func NewDigestHandler(
	ranker Ranker,
	publisher Publisher,
	deduper Deduper,
	retries RetryCounter,
	maxRetries int,
	maxLimit int,
	loc *time.Location,
	logger *zap.Logger,
) *DigestHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DigestHandler{
		ranker:     ranker,
		publisher:  publisher,
		deduper:    deduper,
		retries:    retries,
		maxRetries: int64(maxRetries),
		maxLimit:   maxLimit,
		loc:        loc,
		now:        time.Now,
		logger:     logger,
	}
}

func (h *DigestHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	log := logger.WithTrace(ctx, h.logger)

	var p mqcontracts.DigestRequestedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error("Failed to unmarshal digest request (non-retryable)", zap.Error(err))
		metrics.IncrementDigest("invalid")
		return util.NonRetryable(err)
	}
	if p.UserID <= 0 {
		metrics.IncrementDigest("invalid")
		return util.NonRetryable(errors.New("digest request without user_id"))
	}

	now := p.RequestedAt
	if now.IsZero() {
		now = h.now()
	}
	now = now.In(h.loc)
	log = log.With(zap.Int("user_id", p.UserID), zap.String("day", now.Format(time.DateOnly)))

	key := fmt.Sprintf("%d:%s", p.UserID, now.Format(time.DateOnly))
	if !h.deduper.AcquireOnce(ctx, digestHandlerName, key) {
		log.Info("Digest already sent today, skipping")
		metrics.IncrementDigest("duplicate")
		return nil
	}

	res := h.ranker.GetTopPriorityItems(ctx, p.UserID, now, priority.Options{Limit: h.limit(p.Limit)})
	if len(res.Items) == 0 {
		// 来源全部故障时排序结果也是空的，释放当天的锁，恢复后的请求还能发
		h.deduper.Release(ctx, digestHandlerName, key)
		log.Info("Nothing to digest", zap.Int("candidates", res.Stats.TotalCandidates))
		metrics.IncrementDigest("empty")
		return nil
	}

	payload := buildDigest(p, res, h.now())
	if err := h.publisher.Publish(ctx, mqcontracts.RoutingNotificationCreated, payload); err != nil {
		return h.publishFailed(ctx, log, key, err)
	}

	if h.retries != nil {
		if err := h.retries.Reset(ctx, util.FormatRetryKey(digestHandlerName, key)); err != nil {
			log.Warn("Failed to reset retry counter", zap.Error(err))
		}
	}
	metrics.IncrementDigest("published")
	log.Info("Digest published", zap.Int("items", len(payload.Items)))
	return nil
}

// limit 与 HTTP 接口一致：<=0 交给排序使用默认值，超过 maxLimit 截断
func (h *DigestHandler) limit(requested int) int {
	if h.maxLimit > 0 && requested > h.maxLimit {
		return h.maxLimit
	}
	return requested
}

// publishFailed releases the daily lock so the redelivery can run, and gives up
// once the retry budget is spent.
func (h *DigestHandler) publishFailed(ctx context.Context, log *zap.Logger, key string, err error) error {
	h.deduper.Release(ctx, digestHandlerName, key)
	metrics.IncrementDigest("failed")

	if h.retries == nil {
		return err
	}
	attempts, cerr := h.retries.IncrementAndGet(ctx, util.FormatRetryKey(digestHandlerName, key))
	if cerr != nil {
		log.Warn("Retry counter unavailable", zap.Error(cerr))
		return err
	}
	log.Error("Failed to publish digest",
		zap.Int64("attempt", attempts),
		zap.Error(err),
	)
	if attempts >= h.maxRetries {
		return util.NonRetryable(errors.Join(fmt.Errorf("digest publish gave up after %d attempts", attempts), err))
	}
	return err
}

func buildDigest(p mqcontracts.DigestRequestedPayload, res priority.Result, createdAt time.Time) mqcontracts.NotificationCreatedPayload {
	channel := strings.ToUpper(p.Channel)
	if channel == "" {
		channel = "PUSH"
	}

	items := make([]mqcontracts.DigestItem, 0, len(res.Items))
	var b strings.Builder
	for i, it := range res.Items {
		items = append(items, mqcontracts.DigestItem{
			ID:        it.ID,
			Kind:      string(it.Kind),
			Title:     it.Title,
			Rationale: it.Rationale,
			Score:     it.Score,
			NavRef:    it.NavRef,
		})
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d. %s: %s", i+1, it.Title, it.Rationale)
	}

	return mqcontracts.NotificationCreatedPayload{
		UserID:    p.UserID,
		Channel:   channel,
		Title:     fmt.Sprintf("Your top %d for today", len(items)),
		Message:   b.String(),
		Items:     items,
		CreatedAt: createdAt,
	}
}
