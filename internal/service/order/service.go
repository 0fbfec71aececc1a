package order

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/zibilo/table-top-orders/internal/apperr"
	"github.com/zibilo/table-top-orders/internal/changefeed"
	"github.com/zibilo/table-top-orders/internal/logging"
	"github.com/zibilo/table-top-orders/internal/models"
)

// CartLine is one not-yet-persisted order line coming from a customer cart.
type CartLine struct {
	MenuItemID      uint    `json:"menu_item_id"`
	Quantity        uint    `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	OptionChoiceIDs []uint  `json:"option_choice_ids"`
}

type Service struct {
	DB        *gorm.DB
	Publisher changefeed.Publisher
}

// Submit turns a cart into an order for the table with the given number.
// The total is recomputed server-side; any client-supplied total is ignored.
// All rows are written in one transaction: either the whole order exists
// afterwards or none of it does.
func (s *Service) Submit(ctx context.Context, tableNumber int, lines []CartLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("cart is empty")
	}
	for _, line := range lines {
		if line.Quantity == 0 {
			return nil, apperr.Validation("line quantity must be positive")
		}
	}

	var table models.Table
	err := s.DB.WithContext(ctx).
		Where("number = ? AND is_active = ?", tableNumber, true).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("no active table with number %d", tableNumber))
		}
		return nil, apperr.Submission("table lookup failed", err)
	}

	var (
		order        models.Order
		notification models.Notification
	)

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		total := 0.0
		priced := make([][]models.OptionChoice, len(lines))
		for i, line := range lines {
			choices, err := loadChoices(tx, line.OptionChoiceIDs)
			if err != nil {
				return err
			}
			priced[i] = choices

			lineUnit := line.UnitPrice
			for _, ch := range choices {
				lineUnit += ch.Price
			}
			total += float64(line.Quantity) * lineUnit
		}

		order = models.Order{
			TableID:    table.ID,
			Status:     models.OrderPending,
			TotalPrice: total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i, line := range lines {
			item := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.MenuItemID,
				Quantity:   line.Quantity,
				Price:      line.UnitPrice,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			for _, ch := range priced[i] {
				opt := models.OrderItemOption{
					OrderItemID:    item.ID,
					OptionChoiceID: ch.ID,
				}
				if err := tx.Create(&opt).Error; err != nil {
					return err
				}
			}
		}

		orderID := order.ID
		notification = models.Notification{
			OrderID: &orderID,
			Type:    models.NotificationNewOrder,
			Message: fmt.Sprintf("New order from table %d", table.Number),
		}
		return tx.Create(&notification).Error
	})
	if txErr != nil {
		if apperr.KindOf(txErr) != 0 {
			return nil, txErr
		}
		return nil, apperr.Submission("order submission failed", txErr)
	}

	s.publish(ctx, changefeed.Event{Table: changefeed.TableOrders, Kind: changefeed.KindInsert, RowID: order.ID})
	s.publish(ctx, changefeed.Event{Table: changefeed.TableNotifications, Kind: changefeed.KindInsert, RowID: notification.ID})

	return &order, nil
}

func loadChoices(tx *gorm.DB, ids []uint) ([]models.OptionChoice, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var choices []models.OptionChoice
	if err := tx.Where("id IN ?", ids).Find(&choices).Error; err != nil {
		return nil, err
	}
	if len(choices) != len(ids) {
		return nil, apperr.NotFound("unknown option choice")
	}
	return choices, nil
}

// transitions is the full order status graph. Nothing leaves completed or
// cancelled.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:   {models.OrderValidated, models.OrderCancelled},
	models.OrderValidated: {models.OrderCompleted},
}

func canTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// notifyOn maps a reached status to the notification it raises. Cancellation
// raises none.
var notifyOn = map[models.OrderStatus]models.NotificationType{
	models.OrderValidated: models.NotificationOrderValidated,
	models.OrderCompleted: models.NotificationOrderCompleted,
}

// Transition moves an order along the status graph. The update is a single
// statement keyed by id with no version check: two racing staff transitions
// resolve by last write wins, which is accepted behavior.
func (s *Service) Transition(ctx context.Context, orderID uint, to models.OrderStatus) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(fmt.Sprintf("order %d not found", orderID))
		}
		return nil, apperr.Submission("order lookup failed", err)
	}

	if !canTransition(order.Status, to) {
		return nil, apperr.InvalidTransition(fmt.Sprintf("cannot move order from %s to %s", order.Status, to))
	}

	var notification *models.Notification

	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", to).Error; err != nil {
			return err
		}

		if typ, ok := notifyOn[to]; ok {
			id := orderID
			notification = &models.Notification{
				OrderID: &id,
				Type:    typ,
				Message: fmt.Sprintf("Order #%d is %s", orderID, to),
			}
			return tx.Create(notification).Error
		}
		return nil
	})
	if txErr != nil {
		return nil, apperr.Submission("status update failed", txErr)
	}
	order.Status = to

	s.publish(ctx, changefeed.Event{Table: changefeed.TableOrders, Kind: changefeed.KindUpdate, RowID: orderID})
	if notification != nil {
		s.publish(ctx, changefeed.Event{Table: changefeed.TableNotifications, Kind: changefeed.KindInsert, RowID: notification.ID})
	}

	return &order, nil
}

// publish is best effort: a feed outage must not fail the store write that
// already committed. Consumers recover through their initial full fetch.
func (s *Service) publish(ctx context.Context, ev changefeed.Event) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, ev); err != nil {
		logging.FromContext(ctx).Error("changefeed publish failed", "table", ev.Table, "kind", ev.Kind, "row_id", ev.RowID, "error", err)
	}
}
