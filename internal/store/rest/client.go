// Package rest реализует клиент REST API витрины: domain.OrderStore
// поверх net/http с JSON-представлением API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client ходит в REST API витрины.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient создаёт клиент для API по базовому адресу вида
// "http://localhost:8080". httpClient может быть nil.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Entry) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = log.WithField("component", "rest-client")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// StatusError описывает ответ API с кодом вне 2xx. Detail повторяет
// поле detail из тела ответа, если сервер его прислал.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("api status %d", e.Code)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Code: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil {
			statusErr.Detail = detail.Detail
		}
		return statusErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// Представление API: цены передаются строками.

type productPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type orderItemPayload struct {
	ID               string `json:"id"`
	Product          string `json:"product"`
	ProductName      string `json:"product_name"`
	Quantity         int32  `json:"quantity"`
	UnitPriceAtOrder string `json:"unit_price_at_order"`
}

type orderPayload struct {
	ID                 string             `json:"id"`
	OrderNumber        string             `json:"order_number"`
	Status             string             `json:"status"`
	CreationDate       time.Time          `json:"creation_date"`
	Items              []orderItemPayload `json:"items"`
	TotalProductsCount int32              `json:"total_products_count"`
	TotalFinalPrice    string             `json:"total_final_price"`
}

func (p productPayload) toDomain() (domain.Product, error) {
	price, err := domain.ParseMinor(p.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: %w", p.ID, err)
	}
	return domain.Product{
		ID:             p.ID,
		Name:           p.Name,
		UnitPriceMinor: price,
		ImageURL:       p.Image,
	}, nil
}

func (p orderItemPayload) toDomain() (domain.OrderItem, error) {
	price, err := domain.ParseMinor(p.UnitPriceAtOrder)
	if err != nil {
		return domain.OrderItem{}, fmt.Errorf("order item %s: %w", p.ID, err)
	}
	return domain.OrderItem{
		ID:             p.ID,
		ProductID:      p.Product,
		ProductName:    p.ProductName,
		Quantity:       p.Quantity,
		UnitPriceMinor: price,
	}, nil
}

func (p orderPayload) toDomain() (domain.Order, error) {
	total, err := domain.ParseMinor(p.TotalFinalPrice)
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s: %w", p.ID, err)
	}
	items := make([]domain.OrderItem, 0, len(p.Items))
	for _, raw := range p.Items {
		item, err := raw.toDomain()
		if err != nil {
			return domain.Order{}, err
		}
		items = append(items, item)
	}
	return domain.Order{
		ID:                 p.ID,
		OrderNumber:        p.OrderNumber,
		Status:             domain.OrderStatus(p.Status),
		CreationDate:       p.CreationDate,
		Items:              items,
		TotalProductsCount: p.TotalProductsCount,
		TotalPriceMinor:    total,
	}, nil
}

// ListOrders возвращает все заказы, новые первыми.
func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var payload []orderPayload
	if err := c.do(ctx, http.MethodGet, "/api/orders/", nil, &payload); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(payload))
	for _, raw := range payload {
		order, err := raw.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// GetOrder возвращает заказ целиком.
func (c *Client) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var payload orderPayload
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id)+"/", nil, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain()
}

// CreateOrder создаёт пустой заказ в указанном статусе.
func (c *Client) CreateOrder(ctx context.Context, status domain.OrderStatus) (domain.Order, error) {
	body := map[string]string{"status": string(status)}
	var payload orderPayload
	if err := c.do(ctx, http.MethodPost, "/api/orders/", body, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain()
}

// UpdateOrderStatus меняет статус заказа.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	body := map[string]string{"status": string(status)}
	var payload orderPayload
	if err := c.do(ctx, http.MethodPatch, "/api/orders/"+url.PathEscape(id)+"/", body, &payload); err != nil {
		return domain.Order{}, err
	}
	return payload.toDomain()
}

// DeleteOrder удаляет заказ.
func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(id)+"/", nil, nil)
}

// CreateOrderItem добавляет позицию в заказ.
func (c *Client) CreateOrderItem(ctx context.Context, orderID, productID string, quantity int32) (domain.OrderItem, error) {
	body := map[string]any{
		"order":    orderID,
		"product":  productID,
		"quantity": quantity,
	}
	var payload orderItemPayload
	if err := c.do(ctx, http.MethodPost, "/api/order-items/", body, &payload); err != nil {
		return domain.OrderItem{}, err
	}
	return payload.toDomain()
}

// UpdateOrderItem меняет количество в позиции.
func (c *Client) UpdateOrderItem(ctx context.Context, itemID string, quantity int32) (domain.OrderItem, error) {
	body := map[string]any{"quantity": quantity}
	var payload orderItemPayload
	if err := c.do(ctx, http.MethodPatch, "/api/order-items/"+url.PathEscape(itemID)+"/", body, &payload); err != nil {
		return domain.OrderItem{}, err
	}
	return payload.toDomain()
}

// DeleteOrderItem удаляет позицию из заказа.
func (c *Client) DeleteOrderItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodDelete, "/api/order-items/"+url.PathEscape(itemID)+"/", nil, nil)
}

// ListProducts возвращает каталог товаров.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var payload []productPayload
	if err := c.do(ctx, http.MethodGet, "/api/products/", nil, &payload); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(payload))
	for _, raw := range payload {
		product, err := raw.toDomain()
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

var _ domain.OrderStore = (*Client)(nil)
