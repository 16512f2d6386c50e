package domain

// OrderStatus описывает административный статус заказа.
//
// Статус — это ярлык для оператора, а не строгий workflow: любые переходы
// между Pending и InProgress разрешены в обе стороны, включая прямой скачок
// в Completed. Единственное правило — Completed является терминальным
// состоянием, из него переходов нет.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан и ожидает обработки.
	OrderStatusPending OrderStatus = "Pending"
	// OrderStatusInProgress — заказ взят в работу.
	OrderStatusInProgress OrderStatus = "InProgress"
	// OrderStatusCompleted — заказ завершён; любые изменения запрещены.
	OrderStatusCompleted OrderStatus = "Completed"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// Terminal сообщает, запирает ли статус заказ от дальнейших изменений.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted
}

// Display возвращает человекочитаемую подпись статуса.
func (s OrderStatus) Display() string {
	if s == OrderStatusInProgress {
		return "In Progress"
	}
	return string(s)
}

// CanTransition проверяет допустимость перехода из текущего статуса в next.
// Переход запрещён только из терминального статуса; сам next обязан быть
// известным значением.
func (s OrderStatus) CanTransition(next OrderStatus) error {
	if !next.Valid() {
		return ErrStatusInvalid
	}
	if s.Terminal() {
		return ErrOrderCompleted
	}
	return nil
}
