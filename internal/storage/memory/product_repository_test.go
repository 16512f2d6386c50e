package memory_test

import (
	"testing"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/storage/memory"
)

func TestProductRepository_CreateGet(t *testing.T) {
	repo := memory.NewProductRepository()
	product := domain.Product{ID: "product-1", Name: "Widget", UnitPriceMinor: 1000}

	if err := repo.Create(product); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Name != "Widget" || stored.UnitPriceMinor != 1000 {
		t.Fatalf("unexpected stored product: %+v", stored)
	}
}

func TestProductRepository_NameUnique(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(domain.Product{ID: "product-1", Name: "Widget", UnitPriceMinor: 1000}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Название уникально без учёта регистра.
	err := repo.Create(domain.Product{ID: "product-2", Name: "widget", UnitPriceMinor: 500})
	if err != domain.ErrProductNameTaken {
		t.Fatalf("expected ErrProductNameTaken, got %v", err)
	}

	// Update самого себя с тем же именем проходит.
	if err := repo.Update(domain.Product{ID: "product-1", Name: "Widget", UnitPriceMinor: 1200}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestProductRepository_ListSortedByName(t *testing.T) {
	repo := memory.NewProductRepository()
	for _, p := range []domain.Product{
		{ID: "product-1", Name: "Zebra", UnitPriceMinor: 100},
		{ID: "product-2", Name: "apple", UnitPriceMinor: 200},
		{ID: "product-3", Name: "Mango", UnitPriceMinor: 300},
	} {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create %s failed: %v", p.Name, err)
		}
	}

	products, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	if products[0].Name != "apple" || products[1].Name != "Mango" || products[2].Name != "Zebra" {
		t.Fatalf("unexpected order: %s, %s, %s", products[0].Name, products[1].Name, products[2].Name)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo := memory.NewProductRepository()
	if err := repo.Create(domain.Product{ID: "product-1", Name: "Widget"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.Delete("product-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := repo.Delete("product-1"); err != domain.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}
