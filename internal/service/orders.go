package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/metrics"
)

// OrderService управляет заказами и их позициями. Производные итоги
// заказа пересчитываются при каждой записи и сохраняются атомарно
// вместе с набором позиций.
type OrderService struct {
	orders   domain.OrderRepository
	products domain.ProductRepository
	metrics  *metrics.StoreMetrics
	logger   *log.Entry
}

// NewOrderService создаёт сервис заказов. metrics может быть nil.
func NewOrderService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	storeMetrics *metrics.StoreMetrics,
	logger *log.Entry,
) *OrderService {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &OrderService{
		orders:   orders,
		products: products,
		metrics:  storeMetrics,
		logger:   logger,
	}
}

// Create заводит пустой заказ в указанном статусе.
func (s *OrderService) Create(status domain.OrderStatus) (domain.Order, error) {
	if status == "" {
		status = domain.OrderStatusPending
	}
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", domain.ErrStatusInvalid, status)
	}

	order := domain.Order{
		ID:           uuid.NewString(),
		Status:       status,
		CreationDate: time.Now().UTC(),
		Items:        []domain.OrderItem{},
	}
	order.RecalculateTotals()

	created, err := s.orders.Create(order)
	if err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"status":       string(created.Status),
	}).Info("order created")
	return created, nil
}

// Get возвращает заказ со всеми позициями.
func (s *OrderService) Get(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// List возвращает заказы, новые первыми.
func (s *OrderService) List() ([]domain.Order, error) {
	return s.orders.List()
}

// UpdateStatus переводит заказ в новый статус. Завершённый заказ
// менять нельзя.
func (s *OrderService) UpdateStatus(id string, status domain.OrderStatus) (domain.Order, error) {
	order, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := order.Status.CanTransition(status); err != nil {
		if domain.IsOrderLocked(err) && s.metrics != nil {
			s.metrics.RecordLockedRejection()
		}
		return domain.Order{}, err
	}

	order.Status = status
	if err := s.orders.Update(order); err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange()
	}
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   string(status),
	}).Info("order status updated")
	return order, nil
}

// Delete удаляет заказ вместе с позициями.
func (s *OrderService) Delete(id string) error {
	if err := s.orders.Delete(id); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	s.logger.WithField("order_id", id).Info("order deleted")
	return nil
}

// AddItem добавляет товар в заказ, снимая текущую цену каталога.
// Если товар уже есть в заказе, количество складывается с существующей
// позицией, новая строка не создаётся.
func (s *OrderService) AddItem(orderID, productID string, quantity int32) (domain.OrderItem, error) {
	if quantity <= 0 {
		return domain.OrderItem{}, fmt.Errorf("%w: %d", domain.ErrQuantityInvalid, quantity)
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if err := s.guardMutable(order); err != nil {
		return domain.OrderItem{}, err
	}

	var item domain.OrderItem
	if idx := order.ItemIndexByProduct(productID); idx >= 0 {
		order.Items[idx].Quantity += quantity
		item = order.Items[idx]
	} else {
		product, err := s.products.Get(productID)
		if err != nil {
			return domain.OrderItem{}, err
		}
		item = domain.OrderItem{
			ID:             uuid.NewString(),
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       quantity,
			UnitPriceMinor: product.UnitPriceMinor,
			CreatedAt:      time.Now().UTC(),
		}
		order.Items = append(order.Items, item)
	}
	order.RecalculateTotals()

	if err := s.orders.Update(order); err != nil {
		return domain.OrderItem{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordItemWrite("create")
	}
	s.logger.WithFields(log.Fields{
		"order_id":   order.ID,
		"product_id": productID,
		"quantity":   item.Quantity,
	}).Info("order item written")
	return item, nil
}

// UpdateItemQuantity задаёт количество для позиции заказа.
func (s *OrderService) UpdateItemQuantity(itemID string, quantity int32) (domain.OrderItem, error) {
	if quantity <= 0 {
		return domain.OrderItem{}, fmt.Errorf("%w: %d", domain.ErrQuantityInvalid, quantity)
	}

	order, err := s.orders.GetByItemID(itemID)
	if err != nil {
		return domain.OrderItem{}, err
	}
	if err := s.guardMutable(order); err != nil {
		return domain.OrderItem{}, err
	}

	idx := order.ItemIndexByID(itemID)
	if idx < 0 {
		return domain.OrderItem{}, domain.ErrOrderItemNotFound
	}
	order.Items[idx].Quantity = quantity
	order.RecalculateTotals()

	if err := s.orders.Update(order); err != nil {
		return domain.OrderItem{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordItemWrite("update")
	}
	return order.Items[idx], nil
}

// RemoveItem удаляет позицию из заказа.
func (s *OrderService) RemoveItem(itemID string) error {
	order, err := s.orders.GetByItemID(itemID)
	if err != nil {
		return err
	}
	if err := s.guardMutable(order); err != nil {
		return err
	}

	idx := order.ItemIndexByID(itemID)
	if idx < 0 {
		return domain.ErrOrderItemNotFound
	}
	order.Items = append(order.Items[:idx], order.Items[idx+1:]...)
	order.RecalculateTotals()

	if err := s.orders.Update(order); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordItemWrite("delete")
	}
	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"item_id":  itemID,
	}).Info("order item removed")
	return nil
}

func (s *OrderService) guardMutable(order domain.Order) error {
	if order.Status.Terminal() {
		if s.metrics != nil {
			s.metrics.RecordLockedRejection()
		}
		return domain.ErrOrderCompleted
	}
	return nil
}
