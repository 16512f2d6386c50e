// Package service содержит прикладную логику витрины: каталог товаров
// и жизненный цикл заказов поверх репозиториев хранения.
package service

import (
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// ProductService управляет каталогом товаров.
type ProductService struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewProductService создаёт сервис каталога.
func NewProductService(products domain.ProductRepository, logger *log.Entry) *ProductService {
	if logger == nil {
		logger = log.WithField("component", "product-service")
	}
	return &ProductService{products: products, logger: logger}
}

// Create заводит товар. Цена принимается строкой вида "19.99".
func (s *ProductService) Create(name, price, imageURL string) (domain.Product, error) {
	priceMinor, err := domain.ParseMinor(price)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		UnitPriceMinor: priceMinor,
		ImageURL:       imageURL,
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Create(product); err != nil {
		return domain.Product{}, err
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("product created")
	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *ProductService) Get(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// List возвращает каталог, отсортированный по имени.
func (s *ProductService) List() ([]domain.Product, error) {
	return s.products.List()
}

// Update изменяет товар целиком.
func (s *ProductService) Update(id, name, price, imageURL string) (domain.Product, error) {
	priceMinor, err := domain.ParseMinor(price)
	if err != nil {
		return domain.Product{}, err
	}

	product := domain.Product{
		ID:             id,
		Name:           strings.TrimSpace(name),
		UnitPriceMinor: priceMinor,
		ImageURL:       imageURL,
	}
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	if err := s.products.Update(product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

// Delete удаляет товар из каталога. Позиции существующих заказов
// хранят снимок имени и цены и не затрагиваются.
func (s *ProductService) Delete(id string) error {
	if err := s.products.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}
