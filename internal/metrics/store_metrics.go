package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics содержит метрики операций над заказами и каталогом.
type StoreMetrics struct {
	ordersCreated prometheus.Counter
	ordersDeleted prometheus.Counter
	statusChanges prometheus.Counter

	// Записи позиций по типу операции: create | update | delete.
	itemWrites *prometheus.CounterVec

	// Отклонённые мутации завершённых заказов.
	lockedRejections prometheus.Counter

	requestDuration *prometheus.HistogramVec
}

// NewStoreMetrics создаёт и регистрирует метрики в default-реестре.
func NewStoreMetrics() *StoreMetrics {
	return newStoreMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStoreMetricsWithRegisterer(registerer prometheus.Registerer) *StoreMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StoreMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storeadmin_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storeadmin_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		statusChanges: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storeadmin_order_status_transitions_total",
			Help: "Total number of successful order status transitions",
		}),
		itemWrites: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storeadmin_order_item_writes_total",
			Help: "Total number of order item writes by operation",
		}, []string{"op"}),
		lockedRejections: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storeadmin_completed_order_rejections_total",
			Help: "Total number of mutations rejected on completed orders",
		}),
		requestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storeadmin_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "route", "status"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *StoreMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *StoreMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordStatusChange увеличивает счётчик успешных смен статуса.
func (m *StoreMetrics) RecordStatusChange() {
	m.statusChanges.Inc()
}

// RecordItemWrite увеличивает счётчик записей позиций для операции op.
func (m *StoreMetrics) RecordItemWrite(op string) {
	m.itemWrites.WithLabelValues(op).Inc()
}

// RecordLockedRejection фиксирует отклонённую мутацию завершённого заказа.
func (m *StoreMetrics) RecordLockedRejection() {
	m.lockedRejections.Inc()
}

// ObserveRequest записывает длительность HTTP-запроса.
func (m *StoreMetrics) ObserveRequest(method, route, status string, seconds float64) {
	m.requestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
