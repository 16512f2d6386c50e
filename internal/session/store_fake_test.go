package session_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// fakeStore повторяет контракт REST-хранилища в памяти: снимает цену при
// создании позиции, пересчитывает агрегаты после каждой записи и отдаёт
// копии, чтобы сессия не могла править его состояние напрямую.
type fakeStore struct {
	products map[string]domain.Product
	orders   map[string]domain.Order
	seq      int

	// failCreateItemFor заставляет CreateOrderItem падать для товара.
	failCreateItemFor string
	// failUpdateItem заставляет UpdateOrderItem падать.
	failUpdateItem bool

	createItemCalls int
	updateItemCalls int
	deleteItemCalls int
}

var errStoreDown = errors.New("store rejected the call")

func newFakeStore(products ...domain.Product) *fakeStore {
	s := &fakeStore{
		products: make(map[string]domain.Product),
		orders:   make(map[string]domain.Order),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func copyOrder(o domain.Order) domain.Order {
	out := o
	out.Items = append([]domain.OrderItem(nil), o.Items...)
	return out
}

func (s *fakeStore) ListOrders(context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, copyOrder(o))
	}
	return out, nil
}

func (s *fakeStore) GetOrder(_ context.Context, id string) (domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return copyOrder(o), nil
}

func (s *fakeStore) CreateOrder(_ context.Context, status domain.OrderStatus) (domain.Order, error) {
	id := s.nextID("order")
	order := domain.Order{
		ID:           id,
		OrderNumber:  fmt.Sprintf("ORD-%05d", s.seq),
		Status:       status,
		CreationDate: time.Now().UTC(),
	}
	s.orders[id] = order
	return copyOrder(order), nil
}

func (s *fakeStore) UpdateOrderStatus(_ context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err := o.Status.CanTransition(status); err != nil {
		return domain.Order{}, err
	}
	o.Status = status
	s.orders[id] = o
	return copyOrder(o), nil
}

func (s *fakeStore) DeleteOrder(_ context.Context, id string) error {
	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeStore) CreateOrderItem(_ context.Context, orderID, productID string, quantity int32) (domain.OrderItem, error) {
	s.createItemCalls++
	if productID == s.failCreateItemFor {
		return domain.OrderItem{}, errStoreDown
	}
	order, ok := s.orders[orderID]
	if !ok {
		return domain.OrderItem{}, domain.ErrOrderNotFound
	}
	// Хранилище само отбивает записи в завершённый заказ, как и сервер.
	if order.Status.Terminal() {
		return domain.OrderItem{}, domain.ErrOrderCompleted
	}
	product, ok := s.products[productID]
	if !ok {
		return domain.OrderItem{}, domain.ErrProductNotFound
	}

	item := domain.OrderItem{
		ID:             s.nextID("item"),
		ProductID:      product.ID,
		ProductName:    product.Name,
		Quantity:       quantity,
		UnitPriceMinor: product.UnitPriceMinor,
		CreatedAt:      time.Now().UTC(),
	}
	order.Items = append(order.Items, item)
	order.RecalculateTotals()
	s.orders[orderID] = order
	return item, nil
}

func (s *fakeStore) UpdateOrderItem(_ context.Context, itemID string, quantity int32) (domain.OrderItem, error) {
	s.updateItemCalls++
	if s.failUpdateItem {
		return domain.OrderItem{}, errStoreDown
	}
	for id, order := range s.orders {
		if idx := order.ItemIndexByID(itemID); idx >= 0 {
			if order.Status.Terminal() {
				return domain.OrderItem{}, domain.ErrOrderCompleted
			}
			order.Items[idx].Quantity = quantity
			order.RecalculateTotals()
			s.orders[id] = order
			return order.Items[idx], nil
		}
	}
	return domain.OrderItem{}, domain.ErrOrderItemNotFound
}

func (s *fakeStore) DeleteOrderItem(_ context.Context, itemID string) error {
	s.deleteItemCalls++
	for id, order := range s.orders {
		if idx := order.ItemIndexByID(itemID); idx >= 0 {
			if order.Status.Terminal() {
				return domain.ErrOrderCompleted
			}
			order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
			order.RecalculateTotals()
			s.orders[id] = order
			return nil
		}
	}
	return domain.ErrOrderItemNotFound
}

func (s *fakeStore) ListProducts(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, nil
}

var _ domain.OrderStore = (*fakeStore)(nil)
