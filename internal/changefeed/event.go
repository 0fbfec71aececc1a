package changefeed

// Kind is the row operation that produced an event.
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
)

// Tables whose row changes flow through the feed.
const (
	TableOrders        = "orders"
	TableNotifications = "notifications"
)

// Event identifies a changed row. The payload is an invalidation hint only:
// consumers re-fetch authoritative state instead of trusting event fields,
// and delivery order is not guaranteed to match commit order.
type Event struct {
	Table string `json:"table"`
	Kind  Kind   `json:"kind"`
	RowID uint   `json:"row_id"`
}
