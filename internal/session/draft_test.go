package session_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/vladislavdragonenkov/storeadmin/internal/domain"
	"github.com/vladislavdragonenkov/storeadmin/internal/session"
)

var (
	widget = domain.Product{ID: "product-1", Name: "Widget", UnitPriceMinor: 1000}
	gadget = domain.Product{ID: "product-2", Name: "Gadget", UnitPriceMinor: 550}
)

func TestDraftAddItem_MergesSameProduct(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)

	// Товар по $10.00, количество 2.
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	order := draft.Order()
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(order.Items))
	}
	if order.Items[0].TotalMinor() != 2000 {
		t.Fatalf("expected item total 2000, got %d", order.Items[0].TotalMinor())
	}
	if domain.FormatMinor(order.TotalPriceMinor) != "20.00" {
		t.Fatalf("expected order total 20.00, got %s", domain.FormatMinor(order.TotalPriceMinor))
	}

	// Тот же товар ещё раз: строка одна, количество суммируется.
	if err := draft.AddItem(ctx, widget, 3); err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	order = draft.Order()
	if len(order.Items) != 1 {
		t.Fatalf("expected merged single item, got %d items", len(order.Items))
	}
	if order.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", order.Items[0].Quantity)
	}
	if domain.FormatMinor(order.TotalPriceMinor) != "50.00" {
		t.Fatalf("expected order total 50.00, got %s", domain.FormatMinor(order.TotalPriceMinor))
	}
}

func TestDraftAddItem_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)

	err := draft.AddItem(ctx, widget, 0)
	var vErr *session.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(draft.Order().Items) != 0 {
		t.Fatal("rejected add must not change state")
	}
}

func TestDraftUpdateItemQuantity(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}

	if err := draft.UpdateItemQuantity(ctx, 0, 5); err != nil {
		t.Fatalf("update quantity failed: %v", err)
	}

	order := draft.Order()
	if order.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", order.Items[0].Quantity)
	}
	if domain.FormatMinor(order.Items[0].TotalMinor()) != "50.00" {
		t.Fatalf("expected item total 50.00, got %s", domain.FormatMinor(order.Items[0].TotalMinor()))
	}
	if domain.FormatMinor(order.TotalPriceMinor) != "50.00" {
		t.Fatalf("expected order total 50.00, got %s", domain.FormatMinor(order.TotalPriceMinor))
	}
}

func TestDraftUpdateItemQuantity_NonPositiveIsNoop(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	before := draft.Order()

	// Отмена редактирования ячейки: nil и никаких изменений.
	if err := draft.UpdateItemQuantity(ctx, 0, 0); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if err := draft.UpdateItemQuantity(ctx, 0, -3); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}

	if !reflect.DeepEqual(before, draft.Order()) {
		t.Fatal("no-op update must leave the order untouched")
	}
}

func TestDraftRemoveItem(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add widget failed: %v", err)
	}
	if err := draft.AddItem(ctx, gadget, 1); err != nil {
		t.Fatalf("add gadget failed: %v", err)
	}

	if err := draft.RemoveItem(ctx, 0); err != nil {
		t.Fatalf("remove item failed: %v", err)
	}

	order := draft.Order()
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 item left, got %d", len(order.Items))
	}
	if order.Items[0].ProductID != gadget.ID {
		t.Fatalf("expected gadget to remain, got %s", order.Items[0].ProductID)
	}
	if order.TotalPriceMinor != 550 || order.TotalProductsCount != 1 {
		t.Fatalf("totals not recalculated: %d / %d", order.TotalPriceMinor, order.TotalProductsCount)
	}
}

// Агрегаты обязаны сходиться с позициями после каждой операции.
func TestDraftAggregatesStayConsistent(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)

	steps := []func() error{
		func() error { return draft.AddItem(ctx, widget, 2) },
		func() error { return draft.AddItem(ctx, gadget, 4) },
		func() error { return draft.AddItem(ctx, widget, 1) },
		func() error { return draft.UpdateItemQuantity(ctx, 1, 2) },
		func() error { return draft.RemoveItem(ctx, 0) },
		func() error { return draft.AddItem(ctx, widget, 7) },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		order := draft.Order()
		if errs := order.ValidateInvariants(); len(errs) != 0 {
			t.Fatalf("step %d broke invariants: %v", i, errs)
		}
	}
}

func TestDraftCompletedIsLocked(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := draft.SetStatus(ctx, domain.OrderStatusCompleted); err != nil {
		t.Fatalf("set status failed: %v", err)
	}
	before := draft.Order()

	mutations := map[string]func() error{
		"add item":   func() error { return draft.AddItem(ctx, gadget, 1) },
		"update qty": func() error { return draft.UpdateItemQuantity(ctx, 0, 9) },
		"remove":     func() error { return draft.RemoveItem(ctx, 0) },
		"set status": func() error { return draft.SetStatus(ctx, domain.OrderStatusPending) },
	}

	for name, mutate := range mutations {
		err := mutate()
		var vErr *session.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
	}

	if !reflect.DeepEqual(before, draft.Order()) {
		t.Fatal("completed order must stay byte-identical after rejected mutations")
	}
}

func TestDraftStatusLooseness(t *testing.T) {
	ctx := context.Background()
	draft := session.NewDraft(newFakeStore(), nil)

	// Pending -> InProgress -> Pending -> Completed: всё разрешено.
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusInProgress,
		domain.OrderStatusPending,
		domain.OrderStatusCompleted,
	} {
		if err := draft.SetStatus(ctx, status); err != nil {
			t.Fatalf("transition to %s failed: %v", status, err)
		}
	}

	// Из Completed выхода нет.
	if err := draft.SetStatus(ctx, domain.OrderStatusPending); err == nil {
		t.Fatal("expected transition out of Completed to be rejected")
	}
}

func TestDraftCommit(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(widget, gadget)
	draft := session.NewDraft(store, nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add widget failed: %v", err)
	}
	if err := draft.AddItem(ctx, gadget, 3); err != nil {
		t.Fatalf("add gadget failed: %v", err)
	}

	sess, err := draft.Commit(ctx, domain.OrderStatusPending)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !sess.Persisted() {
		t.Fatal("committed session must be persisted")
	}

	order := sess.Order()
	if order.OrderNumber == "" {
		t.Fatal("expected server-assigned order number")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	// Порядок записи позиций — порядок черновика.
	if order.Items[0].ProductID != widget.ID || order.Items[1].ProductID != gadget.ID {
		t.Fatalf("items written out of order: %+v", order.Items)
	}
	if order.TotalPriceMinor != 2*1000+3*550 {
		t.Fatalf("unexpected total %d", order.TotalPriceMinor)
	}

	// Состояние сессии совпадает с независимым чтением из хранилища.
	fetched, err := store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("independent fetch failed: %v", err)
	}
	if !reflect.DeepEqual(order, fetched) {
		t.Fatal("session state must match the store after commit")
	}
}

// Заказ можно создать сразу завершённым: позиции записываются до перевода
// в Completed, иначе хранилище отбило бы их собственным запретом.
func TestDraftCommit_CompletedStatusAppliedLast(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(widget, gadget)
	draft := session.NewDraft(store, nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add widget failed: %v", err)
	}
	if err := draft.AddItem(ctx, gadget, 1); err != nil {
		t.Fatalf("add gadget failed: %v", err)
	}

	sess, err := draft.Commit(ctx, domain.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("commit to Completed failed: %v", err)
	}

	order := sess.Order()
	if order.Status != domain.OrderStatusCompleted {
		t.Fatalf("expected Completed, got %s", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	if order.TotalPriceMinor != 2*1000+550 {
		t.Fatalf("unexpected total %d", order.TotalPriceMinor)
	}

	// И в хранилище заказ завершён и наполнен.
	stored, err := store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("independent fetch failed: %v", err)
	}
	if stored.Status != domain.OrderStatusCompleted || len(stored.Items) != 2 {
		t.Fatalf("store state wrong: status %s, %d items", stored.Status, len(stored.Items))
	}
}

// То же для черновика, который перевели в Completed до коммита.
func TestDraftCommit_CompletedDraft(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(widget)
	draft := session.NewDraft(store, nil)
	if err := draft.AddItem(ctx, widget, 1); err != nil {
		t.Fatalf("add item failed: %v", err)
	}
	if err := draft.SetStatus(ctx, domain.OrderStatusCompleted); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	sess, err := draft.Commit(ctx, domain.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	order := sess.Order()
	if order.Status != domain.OrderStatusCompleted || len(order.Items) != 1 {
		t.Fatalf("expected completed order with 1 item, got status %s, %d items", order.Status, len(order.Items))
	}
}

func TestDraftCommit_PartialFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore(widget, gadget)
	store.failCreateItemFor = gadget.ID

	draft := session.NewDraft(store, nil)
	if err := draft.AddItem(ctx, widget, 2); err != nil {
		t.Fatalf("add widget failed: %v", err)
	}
	if err := draft.AddItem(ctx, gadget, 3); err != nil {
		t.Fatalf("add gadget failed: %v", err)
	}

	sess, err := draft.Commit(ctx, domain.OrderStatusPending)

	var pErr *session.PartialCommitError
	if !errors.As(err, &pErr) {
		t.Fatalf("expected PartialCommitError, got %v", err)
	}
	// Ошибка называет товар, на котором остановился коммит.
	if pErr.FailedProduct != gadget.Name {
		t.Fatalf("expected failed product %q, got %q", gadget.Name, pErr.FailedProduct)
	}
	if pErr.OrderID == "" {
		t.Fatal("partial commit error must reference the created order")
	}

	// Заказ существует и содержит записанный префикс.
	stored, getErr := store.GetOrder(ctx, pErr.OrderID)
	if getErr != nil {
		t.Fatalf("created order must exist: %v", getErr)
	}
	if len(stored.Items) != 1 || stored.Items[0].ProductID != widget.ID {
		t.Fatalf("expected prefix of 1 widget item, got %+v", stored.Items)
	}

	// Возвращённая сессия рабочая: заказ можно дозаполнить.
	if sess == nil {
		t.Fatal("expected a usable session for the partially committed order")
	}
	store.failCreateItemFor = ""
	if err := sess.AddItem(ctx, gadget, 3); err != nil {
		t.Fatalf("finishing the order failed: %v", err)
	}
	if got := sess.Order(); len(got.Items) != 2 {
		t.Fatalf("expected 2 items after finishing, got %d", len(got.Items))
	}
}
