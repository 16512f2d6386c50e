package domain

import "errors"

var (
	// Ошибка отсутствующего или пустого названия товара.
	ErrProductNameRequired = errors.New("product name is required")
	// Ошибка отрицательной цены товара.
	ErrProductPriceNegative = errors.New("product unit_price must be non-negative")
	// Ошибка неразборчивой денежной строки.
	ErrPriceInvalid = errors.New("invalid price value")
	// ErrProductNameTaken возвращается при попытке создать товар с занятым названием.
	ErrProductNameTaken = errors.New("product name already taken")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// Ошибка некорректного количества в позиции заказа (<= 0).
	ErrQuantityInvalid = errors.New("quantity must be greater than zero")
	// Ошибка неизвестного статуса заказа.
	ErrStatusInvalid = errors.New("unknown order status")
	// ErrOrderCompleted возвращается при попытке изменить завершённый заказ.
	ErrOrderCompleted = errors.New("completed order is immutable")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderItemNotFound возвращается, если позиция заказа не найдена.
	ErrOrderItemNotFound = errors.New("order item not found")
	// Ошибка дублирующейся позиции: в заказе не может быть двух строк одного товара.
	ErrDuplicateProduct = errors.New("order already contains an item for this product")
	// Ошибка несоответствия агрегатов заказа сумме позиций.
	ErrTotalsMismatch = errors.New("order totals do not match items")
)

// IsOrderLocked проверяет, является ли ошибка запретом на изменение завершённого заказа.
func IsOrderLocked(err error) bool {
	return errors.Is(err, ErrOrderCompleted)
}

// IsNotFound проверяет, относится ли ошибка к отсутствующей сущности хранилища.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrOrderItemNotFound) ||
		errors.Is(err, ErrProductNotFound)
}
