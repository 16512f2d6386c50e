// Package session содержит движок редактирования одного заказа.
//
// Сессия существует в двух явных вариантах за общим интерфейсом: Draft —
// заказ ещё не создан, позиции и агрегаты живут только в памяти; Persisted —
// заказ существует в хранилище, каждая мутация уходит туда немедленно, после
// чего локальное состояние заменяется ответом хранилища целиком. Вариант
// выбирается один раз: Draft конструированием, Persisted — через Load либо
// как результат Draft.Commit.
//
// Сессия не потокобезопасна и рассчитана ровно на одну мутирующую операцию
// за раз: вызывающая сторона обязана дождаться завершения операции, прежде
// чем начинать следующую. Одновременные правки одного заказа из двух сессий
// не детектируются — побеждает последняя запись.
package session

import (
	"context"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// OrderSession — единый набор операций над редактируемым заказом.
type OrderSession interface {
	// Order возвращает снимок текущего состояния заказа.
	Order() domain.Order
	// Persisted сообщает, существует ли заказ в хранилище.
	Persisted() bool
	// AddItem добавляет товар в заказ. Повторное добавление того же товара
	// суммирует количество в существующей позиции, а не плодит строки.
	AddItem(ctx context.Context, product domain.Product, quantity int32) error
	// UpdateItemQuantity меняет количество позиции по её индексу.
	// Неположительное количество — тихий no-op: так отменяется
	// редактирование ячейки, это не ошибка.
	UpdateItemQuantity(ctx context.Context, itemIndex int, quantity int32) error
	// RemoveItem удаляет позицию по индексу.
	RemoveItem(ctx context.Context, itemIndex int) error
	// SetStatus меняет статус заказа. Из Completed переходов нет.
	SetStatus(ctx context.Context, status domain.OrderStatus) error
}

// guardMutable отклоняет мутацию, если заказ уже завершён. Проверка идёт
// до любых локальных изменений и до любых обращений к хранилищу.
func guardMutable(order *domain.Order) error {
	if order.Status.Terminal() {
		return validationErr(domain.ErrOrderCompleted)
	}
	return nil
}
