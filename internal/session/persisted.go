package session

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// Persisted — сессия существующего заказа. Каждая мутация сначала уходит в
// хранилище; локальное состояние заменяется его ответом целиком, вручную оно
// не правится. При ошибке удалённого вызова состояние остаётся прежним.
type Persisted struct {
	store  domain.OrderStore
	order  domain.Order
	logger *log.Entry
}

// Load читает заказ из хранилища и открывает Persisted-сессию — это
// единственный путь в режим редактирования существующего заказа.
func Load(ctx context.Context, store domain.OrderStore, orderID string, logger *log.Entry) (*Persisted, error) {
	if logger == nil {
		logger = log.WithField("component", "order-session")
	}
	order, err := store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, remoteErr("load order", err)
	}
	return &Persisted{store: store, order: order, logger: logger}, nil
}

// Order возвращает снимок последнего синхронизированного состояния.
func (p *Persisted) Order() domain.Order {
	order := p.order
	order.Items = append([]domain.OrderItem(nil), p.order.Items...)
	return order
}

// Persisted для существующего заказа всегда true.
func (p *Persisted) Persisted() bool {
	return true
}

// refresh перечитывает заказ и заменяет локальное состояние.
func (p *Persisted) refresh(ctx context.Context) error {
	order, err := p.store.GetOrder(ctx, p.order.ID)
	if err != nil {
		return remoteErr("refresh order", err)
	}
	p.order = order
	return nil
}

// AddItem записывает позицию в хранилище. Если товар уже есть в заказе,
// вместо новой строки отправляется обновление с суммарным количеством.
func (p *Persisted) AddItem(ctx context.Context, product domain.Product, quantity int32) error {
	if err := guardMutable(&p.order); err != nil {
		return err
	}
	if quantity <= 0 {
		return validationErr(domain.ErrQuantityInvalid)
	}

	if idx := p.order.ItemIndexByProduct(product.ID); idx >= 0 {
		existing := p.order.Items[idx]
		if _, err := p.store.UpdateOrderItem(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return remoteErr("update order item", err)
		}
	} else {
		if _, err := p.store.CreateOrderItem(ctx, p.order.ID, product.ID, quantity); err != nil {
			return remoteErr("create order item", err)
		}
	}
	return p.refresh(ctx)
}

// UpdateItemQuantity отправляет новое количество и перечитывает заказ.
func (p *Persisted) UpdateItemQuantity(ctx context.Context, itemIndex int, quantity int32) error {
	if err := guardMutable(&p.order); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(p.order.Items) {
		return validationErr(domain.ErrOrderItemNotFound)
	}
	// Отмена редактирования ячейки: не ошибка и не обращение к хранилищу.
	if quantity <= 0 {
		return nil
	}

	if _, err := p.store.UpdateOrderItem(ctx, p.order.Items[itemIndex].ID, quantity); err != nil {
		return remoteErr("update order item", err)
	}
	return p.refresh(ctx)
}

// RemoveItem удаляет позицию в хранилище и перечитывает заказ.
func (p *Persisted) RemoveItem(ctx context.Context, itemIndex int) error {
	if err := guardMutable(&p.order); err != nil {
		return err
	}
	if itemIndex < 0 || itemIndex >= len(p.order.Items) {
		return validationErr(domain.ErrOrderItemNotFound)
	}

	if err := p.store.DeleteOrderItem(ctx, p.order.Items[itemIndex].ID); err != nil {
		return remoteErr("delete order item", err)
	}
	return p.refresh(ctx)
}

// SetStatus меняет статус в хранилище; локальное состояние заменяется
// ответом на обновление.
func (p *Persisted) SetStatus(ctx context.Context, status domain.OrderStatus) error {
	if err := p.order.Status.CanTransition(status); err != nil {
		return validationErr(err)
	}

	order, err := p.store.UpdateOrderStatus(ctx, p.order.ID, status)
	if err != nil {
		return remoteErr("update order status", err)
	}
	p.order = order
	return nil
}

var _ OrderSession = (*Persisted)(nil)
