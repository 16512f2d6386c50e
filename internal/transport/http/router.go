// Package http реализует REST API витрины поверх gin.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/metrics"
	"github.com/vladislavdragonenkov/storeadmin/internal/service"
)

// Handler связывает HTTP-маршруты с прикладными сервисами.
type Handler struct {
	products *service.ProductService
	orders   *service.OrderService
	metrics  *metrics.StoreMetrics
	logger   *log.Entry
}

// NewHandler создаёт обработчик API. metrics может быть nil.
func NewHandler(
	products *service.ProductService,
	orders *service.OrderService,
	storeMetrics *metrics.StoreMetrics,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	return &Handler{
		products: products,
		orders:   orders,
		metrics:  storeMetrics,
		logger:   logger,
	}
}

// registerValidations добавляет проверку статуса заказа в валидатор привязки.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
			return domain.OrderStatus(fl.Field().String()).Valid()
		})
	}
}

// NewRouter собирает gin-роутер со всеми маршрутами API.
func NewRouter(h *Handler) *gin.Engine {
	registerValidations()
	router := gin.New()
	router.Use(gin.Recovery(), h.observe)
	router.RedirectTrailingSlash = true

	api := router.Group("/api")
	{
		api.GET("/products/", h.listProducts)
		api.POST("/products/", h.createProduct)
		api.GET("/products/:id/", h.getProduct)
		api.PUT("/products/:id/", h.updateProduct)
		api.PATCH("/products/:id/", h.updateProduct)
		api.DELETE("/products/:id/", h.deleteProduct)

		api.GET("/orders/", h.listOrders)
		api.POST("/orders/", h.createOrder)
		api.GET("/orders/:id/", h.getOrder)
		api.PATCH("/orders/:id/", h.updateOrder)
		api.PUT("/orders/:id/", h.updateOrder)
		api.DELETE("/orders/:id/", h.deleteOrder)

		api.POST("/order-items/", h.createOrderItem)
		api.PATCH("/order-items/:id/", h.updateOrderItem)
		api.DELETE("/order-items/:id/", h.deleteOrderItem)
	}
	return router
}

// observe пишет access-лог и метрику длительности запроса.
func (h *Handler) observe(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()

	if h.metrics != nil {
		h.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed.Seconds())
	}
	h.logger.WithFields(log.Fields{
		"method":  c.Request.Method,
		"route":   route,
		"status":  status,
		"elapsed": elapsed.String(),
	}).Debug("request handled")
}

// respondError переводит доменные ошибки в HTTP-статусы в стиле DRF:
// тело ответа содержит единственное поле detail.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrPriceInvalid),
		errors.Is(err, domain.ErrQuantityInvalid),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceNegative),
		errors.Is(err, domain.ErrStatusInvalid):
		status = http.StatusBadRequest
	case domain.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrProductNameTaken), domain.IsOrderLocked(err):
		status = http.StatusConflict
	default:
		h.logger.WithError(err).Error("request failed")
	}
	c.JSON(status, gin.H{"detail": err.Error()})
}

func (h *Handler) respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.products.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	product, err := h.products.Create(req.Name, req.Price, req.Image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.products.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	product, err := h.products.Update(c.Param("id"), req.Name, req.Price, req.Image)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	order, err := h.orders.Create(domain.OrderStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	order, err := h.orders.UpdateStatus(c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *Handler) deleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createOrderItem(c *gin.Context) {
	var req createOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	item, err := h.orders.AddItem(req.Order, req.Product, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderItemResponse(item))
}

func (h *Handler) updateOrderItem(c *gin.Context) {
	var req updateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondBindError(c, err)
		return
	}
	item, err := h.orders.UpdateItemQuantity(c.Param("id"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderItemResponse(item))
}

func (h *Handler) deleteOrderItem(c *gin.Context) {
	if err := h.orders.RemoveItem(c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
