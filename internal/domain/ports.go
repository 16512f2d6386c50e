package domain

import "context"

// OrderStore описывает REST-хранилище заказов с точки зрения клиента.
//
// Для сохранённого заказа хранилище — единственный источник истины: после
// каждой успешной мутации клиент перечитывает заказ целиком, а не чинит
// локальное состояние вручную.
type OrderStore interface {
	// ListOrders возвращает все заказы, новые первыми.
	ListOrders(ctx context.Context) ([]Order, error)
	// GetOrder возвращает заказ целиком, включая позиции.
	GetOrder(ctx context.Context, id string) (Order, error)
	// CreateOrder создаёт пустой заказ с начальным статусом; сервер
	// присваивает идентификатор, номер и дату создания.
	CreateOrder(ctx context.Context, status OrderStatus) (Order, error)
	// UpdateOrderStatus меняет статус заказа.
	UpdateOrderStatus(ctx context.Context, id string, status OrderStatus) (Order, error)
	// DeleteOrder удаляет сохранённый заказ.
	DeleteOrder(ctx context.Context, id string) error
	// CreateOrderItem добавляет позицию в сохранённый заказ.
	CreateOrderItem(ctx context.Context, orderID, productID string, quantity int32) (OrderItem, error)
	// UpdateOrderItem меняет количество в позиции.
	UpdateOrderItem(ctx context.Context, itemID string, quantity int32) (OrderItem, error)
	// DeleteOrderItem удаляет позицию из заказа.
	DeleteOrderItem(ctx context.Context, itemID string) error
	// ListProducts возвращает каталог товаров.
	ListProducts(ctx context.Context) ([]Product, error)
}
