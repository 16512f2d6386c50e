package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	items  map[string]domain.Order
	nextNo int64
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
func cloneOrder(order domain.Order) domain.Order {
	out := order
	out.Items = append([]domain.OrderItem(nil), order.Items...)
	return out
}

// Create сохраняет новый заказ и присваивает ему витринный номер.
func (r *orderRepositoryInMemory) Create(order domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[order.ID]; exists {
		return domain.Order{}, fmt.Errorf("order %s already exists", order.ID)
	}
	r.nextNo++
	order.OrderNumber = fmt.Sprintf("ORD-%05d", r.nextNo)
	r.items[order.ID] = cloneOrder(order)
	return cloneOrder(order), nil
}

// Get возвращает заказ или ErrOrderNotFound.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

// GetByItemID возвращает заказ, содержащий позицию.
func (r *orderRepositoryInMemory) GetByItemID(itemID string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.items {
		if order.ItemIndexByID(itemID) >= 0 {
			return cloneOrder(order), nil
		}
	}
	return domain.Order{}, domain.ErrOrderItemNotFound
}

// List возвращает заказы, новые первыми.
func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, cloneOrder(order))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreationDate.Equal(result[j].CreationDate) {
			return result[i].CreationDate.After(result[j].CreationDate)
		}
		return result[i].OrderNumber > result[j].OrderNumber
	})
	return result, nil
}

// Update перезаписывает заказ вместе с позициями.
func (r *orderRepositoryInMemory) Update(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	// Витринный номер неизменяем после создания.
	order.OrderNumber = current.OrderNumber
	r.items[order.ID] = cloneOrder(order)
	return nil
}

// Delete удаляет заказ вместе с позициями.
func (r *orderRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(r.items, id)
	return nil
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
