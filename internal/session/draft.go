package session

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// Draft — сессия ещё не созданного заказа. Все операции выполняются
// локально; хранилище понадобится только при коммите.
type Draft struct {
	store  domain.OrderStore
	order  domain.Order
	logger *log.Entry
}

// NewDraft создаёт пустой черновик со статусом Pending и текущей датой.
func NewDraft(store domain.OrderStore, logger *log.Entry) *Draft {
	if logger == nil {
		logger = log.WithField("component", "order-session")
	}
	return &Draft{
		store: store,
		order: domain.Order{
			Status:       domain.OrderStatusPending,
			CreationDate: time.Now().UTC(),
		},
		logger: logger,
	}
}

// Order возвращает снимок черновика с пересчитанными агрегатами.
func (d *Draft) Order() domain.Order {
	order := d.order
	order.Items = append([]domain.OrderItem(nil), d.order.Items...)
	return order
}

// Persisted для черновика всегда false.
func (d *Draft) Persisted() bool {
	return false
}

// AddItem добавляет товар в черновик, снимая цену на момент добавления.
func (d *Draft) AddItem(_ context.Context, product domain.Product, quantity int32) error {
	if err := guardMutable(&d.order); err != nil {
		return err
	}
	if quantity <= 0 {
		return validationErr(domain.ErrQuantityInvalid)
	}

	if idx := d.order.ItemIndexByProduct(product.ID); idx >= 0 {
		d.order.Items[idx].Quantity += quantity
	} else {
		d.order.Items = append(d.order.Items, domain.OrderItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       quantity,
			UnitPriceMinor: product.UnitPriceMinor,
			CreatedAt:      time.Now().UTC(),
		})
	}
	d.order.RecalculateTotals()
	return nil
}

// UpdateItemQuantity заменяет количество позиции и пересчитывает агрегаты.
func (d *Draft) UpdateItemQuantity(_ context.Context, itemIndex int, quantity int32) error {
	if err := guardMutable(&d.order); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(d.order.Items) {
		return validationErr(domain.ErrOrderItemNotFound)
	}
	// Отмена редактирования ячейки: не ошибка и не изменение.
	if quantity <= 0 {
		return nil
	}

	d.order.Items[itemIndex].Quantity = quantity
	d.order.RecalculateTotals()
	return nil
}

// RemoveItem выбрасывает позицию из черновика.
func (d *Draft) RemoveItem(_ context.Context, itemIndex int) error {
	if err := guardMutable(&d.order); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(d.order.Items) {
		return validationErr(domain.ErrOrderItemNotFound)
	}

	d.order.Items = append(d.order.Items[:itemIndex], d.order.Items[itemIndex+1:]...)
	d.order.RecalculateTotals()
	return nil
}

// SetStatus меняет статус черновика локально.
func (d *Draft) SetStatus(_ context.Context, status domain.OrderStatus) error {
	if err := d.order.Status.CanTransition(status); err != nil {
		return validationErr(err)
	}
	d.order.Status = status
	return nil
}

// Commit создаёт заказ в хранилище и превращает черновик в Persisted-сессию.
//
// Позиции создаются последовательно в порядке добавления, поэтому частичный
// сбой оставляет детерминированный префикс. Если какая-то позиция не
// записалась, заказ НЕ откатывается: вызывающая сторона получает
// PartialCommitError вместе с уже рабочей Persisted-сессией созданного
// заказа и может дозаполнить его.
//
// Терминальный статус применяется последним шагом: хранилище не принимает
// позиции в завершённый заказ, поэтому заказ создаётся в Pending, наполняется
// и только затем переводится в Completed.
func (d *Draft) Commit(ctx context.Context, status domain.OrderStatus) (*Persisted, error) {
	if status != d.order.Status {
		if err := d.order.Status.CanTransition(status); err != nil {
			return nil, validationErr(err)
		}
	}

	createStatus := status
	if createStatus.Terminal() {
		createStatus = domain.OrderStatusPending
	}

	created, err := d.store.CreateOrder(ctx, createStatus)
	if err != nil {
		return nil, remoteErr("create order", err)
	}
	d.logger.WithFields(log.Fields{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"items":        len(d.order.Items),
	}).Info("draft committed, writing items")

	for _, item := range d.order.Items {
		if _, err := d.store.CreateOrderItem(ctx, created.ID, item.ProductID, item.Quantity); err != nil {
			partial := &PartialCommitError{
				OrderID:       created.ID,
				OrderNumber:   created.OrderNumber,
				FailedProduct: item.ProductName,
				Err:           err,
			}
			sess, loadErr := Load(ctx, d.store, created.ID, d.logger)
			if loadErr != nil {
				// Перечитать не вышло; заказ всё равно существует.
				return nil, partial
			}
			return sess, partial
		}
	}

	if createStatus != status {
		if _, err := d.store.UpdateOrderStatus(ctx, created.ID, status); err != nil {
			// Заказ создан и наполнен, но остался в рабочем статусе.
			sess, loadErr := Load(ctx, d.store, created.ID, d.logger)
			if loadErr != nil {
				return nil, remoteErr("finalize order status", err)
			}
			return sess, remoteErr("finalize order status", err)
		}
	}

	return Load(ctx, d.store, created.ID, d.logger)
}

var _ OrderSession = (*Draft)(nil)
