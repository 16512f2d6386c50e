package http

import (
	"time"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

// DTO повторяют формат публичного API: цены передаются строками
// с двумя знаками после точки, позиция ссылается на товар полем product.

type productRequest struct {
	Name  string `json:"name" binding:"required"`
	Price string `json:"price" binding:"required"`
	Image string `json:"image"`
}

type productResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type createOrderRequest struct {
	Status string `json:"status" binding:"omitempty,orderstatus"`
}

type updateOrderRequest struct {
	Status string `json:"status" binding:"required,orderstatus"`
}

type createOrderItemRequest struct {
	Order    string `json:"order" binding:"required"`
	Product  string `json:"product" binding:"required"`
	Quantity int32  `json:"quantity" binding:"required,gt=0"`
}

type updateOrderItemRequest struct {
	Quantity int32 `json:"quantity" binding:"required,gt=0"`
}

type orderItemResponse struct {
	ID               string `json:"id"`
	Product          string `json:"product"`
	ProductName      string `json:"product_name"`
	Quantity         int32  `json:"quantity"`
	UnitPriceAtOrder string `json:"unit_price_at_order"`
	ItemTotal        string `json:"item_total"`
}

type orderResponse struct {
	ID                 string              `json:"id"`
	OrderNumber        string              `json:"order_number"`
	Status             string              `json:"status"`
	StatusDisplay      string              `json:"status_display"`
	CreationDate       time.Time           `json:"creation_date"`
	Items              []orderItemResponse `json:"items"`
	TotalProductsCount int32               `json:"total_products_count"`
	TotalFinalPrice    string              `json:"total_final_price"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:    p.ID,
		Name:  p.Name,
		Price: domain.FormatMinor(p.UnitPriceMinor),
		Image: p.ImageURL,
	}
}

func toOrderItemResponse(item domain.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:               item.ID,
		Product:          item.ProductID,
		ProductName:      item.ProductName,
		Quantity:         item.Quantity,
		UnitPriceAtOrder: domain.FormatMinor(item.UnitPriceMinor),
		ItemTotal:        domain.FormatMinor(item.TotalMinor()),
	}
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, toOrderItemResponse(item))
	}
	return orderResponse{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		Status:             string(order.Status),
		StatusDisplay:      order.Status.Display(),
		CreationDate:       order.CreationDate,
		Items:              items,
		TotalProductsCount: order.TotalProductsCount,
		TotalFinalPrice:    domain.FormatMinor(order.TotalPriceMinor),
	}
}
