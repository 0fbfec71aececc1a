package notifications

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/changefeed"
	"github.com/zibilo/table-top-orders/internal/models"
)

// Alerter is the presentation hook fired once per incoming notification
// (badge flash, audible beep). Implementations must be fast; the callback
// runs on the feed dispatch path.
type Alerter interface {
	OrderReceived(n models.Notification)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(models.Notification)

func (f AlerterFunc) OrderReceived(n models.Notification) { f(n) }

// Counter keeps a session-local count of unread notifications. It seeds
// itself from the store, increments by one per feed insert event, and is
// re-synced against the store on bulk mark-as-read so that missed or
// duplicated events cannot leave it permanently wrong. It never goes
// negative.
type Counter struct {
	db      *gorm.DB
	feed    changefeed.Feed
	alerter Alerter

	mu    sync.Mutex
	count int64
	sub   *changefeed.Subscription
}

func NewCounter(db *gorm.DB, feed changefeed.Feed, alerter Alerter) (*Counter, error) {
	c := &Counter{db: db, feed: feed, alerter: alerter}

	var n int64
	if err := db.Model(&models.Notification{}).Where("is_read = ?", false).Count(&n).Error; err != nil {
		return nil, err
	}
	c.count = n

	c.sub = feed.Subscribe(changefeed.TableNotifications, []changefeed.Kind{changefeed.KindInsert}, c.onInsert)
	return c, nil
}

func (c *Counter) onInsert(ev changefeed.Event) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()

	if c.alerter != nil {
		var n models.Notification
		if err := c.db.First(&n, ev.RowID).Error; err == nil {
			c.alerter.OrderReceived(n)
		}
	}
}

func (c *Counter) Unread() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// MarkRead flips one notification to read and decrements the counter,
// flooring at zero.
func (c *Counter) MarkRead(ctx context.Context, id uint) error {
	res := c.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected > 0 {
		c.mu.Lock()
		if c.count > 0 {
			c.count--
		}
		c.mu.Unlock()
	}
	return nil
}

// MarkAllRead flips every unread notification and resets the counter to the
// server-confirmed remaining count instead of trusting local arithmetic.
func (c *Counter) MarkAllRead(ctx context.Context) error {
	if err := c.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true).Error; err != nil {
		return err
	}

	var remaining int64
	if err := c.db.WithContext(ctx).Model(&models.Notification{}).
		Where("is_read = ?", false).Count(&remaining).Error; err != nil {
		return err
	}

	c.mu.Lock()
	c.count = remaining
	c.mu.Unlock()
	return nil
}

// Close releases the feed subscription. Safe to call more than once.
func (c *Counter) Close() {
	if c.sub != nil {
		c.feed.Unsubscribe(c.sub)
		c.sub = nil
	}
}
