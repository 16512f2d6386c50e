package domain

import "time"

// OrderItem представляет одну позицию заказа: пару товар-количество.
type OrderItem struct {
	// ID позиции присваивается хранилищем; у черновых позиций он пуст.
	ID string
	// ProductID — идентификатор товара каталога.
	ProductID string
	// ProductName дублируется для отображения, чтобы не ходить в каталог.
	ProductName string
	// Quantity — положительное количество единиц.
	Quantity int32
	// UnitPriceMinor — снимок цены товара на момент добавления позиции.
	// Последующие изменения цены товара на него не влияют.
	UnitPriceMinor int64
	// CreatedAt фиксирует момент добавления позиции в заказ.
	CreatedAt time.Time
}

// TotalMinor возвращает стоимость позиции: количество на цену снимка.
func (i OrderItem) TotalMinor() int64 {
	return int64(i.Quantity) * i.UnitPriceMinor
}

// Order агрегирует состояние заказа и его позиции.
//
// TotalProductsCount и TotalPriceMinor — производные значения: после любого
// изменения Items их пересчитывает RecalculateTotals, напрямую они не
// выставляются.
type Order struct {
	ID string
	// OrderNumber — витринный номер вида ORD-00042, присваивается хранилищем.
	OrderNumber  string
	Status       OrderStatus
	CreationDate time.Time
	// Items хранит позиции в порядке добавления.
	Items              []OrderItem
	TotalProductsCount int32
	TotalPriceMinor    int64
}

// RecalculateTotals пересчитывает агрегаты заказа из текущих позиций.
func (o *Order) RecalculateTotals() {
	var count int32
	var total int64
	for _, item := range o.Items {
		count += item.Quantity
		total += item.TotalMinor()
	}
	o.TotalProductsCount = count
	o.TotalPriceMinor = total
}

// ItemIndexByProduct возвращает индекс позиции с данным товаром или -1.
func (o *Order) ItemIndexByProduct(productID string) int {
	for idx, item := range o.Items {
		if item.ProductID == productID {
			return idx
		}
	}
	return -1
}

// ItemIndexByID возвращает индекс позиции с данным идентификатором или -1.
func (o *Order) ItemIndexByID(itemID string) int {
	for idx, item := range o.Items {
		if item.ID == itemID {
			return idx
		}
	}
	return -1
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if !o.Status.Valid() {
		errs = append(errs, ErrStatusInvalid)
	}

	seen := make(map[string]bool, len(o.Items))
	var count int32
	var total int64
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrQuantityInvalid)
		}
		if item.UnitPriceMinor < 0 {
			errs = append(errs, ErrProductPriceNegative)
		}
		// В заказе допустима максимум одна строка на товар.
		if seen[item.ProductID] {
			errs = append(errs, ErrDuplicateProduct)
		}
		seen[item.ProductID] = true
		count += item.Quantity
		total += item.TotalMinor()
	}

	if count != o.TotalProductsCount || total != o.TotalPriceMinor {
		errs = append(errs, ErrTotalsMismatch)
	}

	return errs
}
