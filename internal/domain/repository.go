package domain

// ProductRepository описывает требования к хранилищу каталога товаров.
type ProductRepository interface {
	// Create сохраняет новый товар. Возвращает ErrProductNameTaken, если имя занято.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// List возвращает все товары, отсортированные по названию.
	List() ([]Product, error)
	// Update перезаписывает товар; проверка уникальности имени сохраняется.
	Update(product Product) error
	// Delete удаляет товар или возвращает ErrProductNotFound.
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
//
// Заказ сохраняется целиком как агрегат: Update заменяет и строку заказа,
// и весь набор его позиций атомарно.
type OrderRepository interface {
	// Create сохраняет новый заказ и присваивает ему витринный номер.
	Create(order Order) (Order, error)
	// Get возвращает заказ с позициями или ErrOrderNotFound.
	Get(id string) (Order, error)
	// GetByItemID возвращает заказ, содержащий позицию, или ErrOrderItemNotFound.
	GetByItemID(itemID string) (Order, error)
	// List возвращает все заказы, новые первыми.
	List() ([]Order, error)
	// Update атомарно перезаписывает заказ вместе с позициями.
	Update(order Order) error
	// Delete удаляет заказ вместе с позициями или возвращает ErrOrderNotFound.
	Delete(id string) error
}
