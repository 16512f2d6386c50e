package domain

// Product представляет товар каталога.
type Product struct {
	ID string
	// Name уникально в пределах каталога.
	Name string
	// UnitPriceMinor — текущая цена за единицу в минимальных единицах.
	UnitPriceMinor int64
	// ImageURL опционален; загрузка файлов живёт за пределами этого сервиса.
	ImageURL string
}

// Validate проверяет базовые инварианты товара.
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrProductNameRequired
	}
	if p.UnitPriceMinor < 0 {
		return ErrProductPriceNegative
	}
	return nil
}
