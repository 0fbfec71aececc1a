package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zibilo/table-top-orders/internal/changefeed"
)

type EventsHandler struct {
	Feed changefeed.Feed
}

// Stream pushes order and notification change events to an admin session as
// server-sent events. Subscriptions are released when the client goes away,
// and events carry only row id and operation kind: the client re-fetches
// authoritative state on each one.
func (h *EventsHandler) Stream(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	events := make(chan changefeed.Event, 16)
	forward := func(ev changefeed.Event) {
		select {
		case events <- ev:
		default:
			// Slow client: drop. The next full fetch catches it up.
		}
	}

	orderSub := h.Feed.Subscribe(changefeed.TableOrders, nil, forward)
	notifSub := h.Feed.Subscribe(changefeed.TableNotifications, nil, forward)
	defer h.Feed.Unsubscribe(orderSub)
	defer h.Feed.Unsubscribe(notifSub)

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: change\ndata: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
