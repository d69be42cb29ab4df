package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/service"
	"github.com/reluxe-pos/app/internal/store"
)

// --- Mock Restocker ---

type mockRestocker struct {
	restockFn func(items []model.Product)
}

func (m *mockRestocker) Restock(items []model.Product) {
	if m.restockFn != nil {
		m.restockFn(items)
	}
}

func newReturnService(st *store.Store, restocker service.Restocker) *service.ReturnService {
	return service.NewReturnService(st, event.NewHub(), restocker).
		WithClock(frozenClock()).
		WithIDGenerator(sequentialIDs())
}

// --- Cancellation ---

func TestRequestCancel_UnpaidOrderCancelled(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	returns := newReturnService(st, nil)

	ret, err := returns.RequestCancel(orderID)
	if err != nil {
		t.Fatalf("request cancel: %v", err)
	}

	order, _ := st.GetOrder(orderID)
	if order.Status != enum.OrderStatusCancelled {
		t.Errorf("order status: got %s, want %s", order.Status, enum.OrderStatusCancelled)
	}
	if ret.Status != enum.ReturnStatusPendingAudit {
		t.Errorf("return status: got %s, want %s", ret.Status, enum.ReturnStatusPendingAudit)
	}
	if ret.OriginalOrderID != order.SalesOrderID {
		t.Errorf("original order id: got %s, want %s", ret.OriginalOrderID, order.SalesOrderID)
	}
	if !ret.Amount.IsZero() {
		t.Errorf("return amount: got %s, want 0", ret.Amount)
	}

	count := 0
	for _, r := range st.ReturnOrders() {
		if r.OriginalOrderID == order.SalesOrderID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("return orders for %s: got %d, want 1", order.SalesOrderID, count)
	}
}

func TestRequestCancel_PartiallyPaidOrderReturned(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	if _, err := newPaymentService(st).OfflinePay(orderID, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	returns := newReturnService(st, nil)

	ret, err := returns.RequestCancel(orderID)
	if err != nil {
		t.Fatalf("request cancel: %v", err)
	}

	order, _ := st.GetOrder(orderID)
	if order.Status != enum.OrderStatusReturned {
		t.Errorf("order status: got %s, want %s", order.Status, enum.OrderStatusReturned)
	}
	if want := decimal.NewFromInt(1000); !ret.Amount.Equal(want) {
		t.Errorf("return amount: got %s, want %s", ret.Amount, want)
	}
}

func TestRequestCancel_WrongStatus(t *testing.T) {
	st := newSeededStore()
	order := submitOrder(t, newOrderService(st), 3000)
	returns := newReturnService(st, nil)

	if _, err := returns.RequestCancel(order.ID); !errors.Is(err, service.ErrNotCancellable) {
		t.Errorf("order under audit: got %v, want %v", err, service.ErrNotCancellable)
	}
}

// --- Post-sale returns ---

func TestRequestReturn_PaidOrder(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	// SET-1001 is seeded fully paid.
	ret, err := returns.RequestReturn("SET-1001")
	if err != nil {
		t.Fatalf("request return: %v", err)
	}

	order, _ := st.GetOrder("SET-1001")
	if order.Status != enum.OrderStatusReturned {
		t.Errorf("order status: got %s, want %s", order.Status, enum.OrderStatusReturned)
	}
	if !ret.Amount.Equal(order.PaidAmount) {
		t.Errorf("return amount: got %s, want %s", ret.Amount, order.PaidAmount)
	}
	if ret.OriginalPaymentMethod != enum.PaymentMethodOffline {
		t.Errorf("original method: got %s, want %s", ret.OriginalPaymentMethod, enum.PaymentMethodOffline)
	}
}

func TestRequestReturn_WrongStatus(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	// SET-1002 is still awaiting payment.
	if _, err := returns.RequestReturn("SET-1002"); !errors.Is(err, service.ErrNotReturnable) {
		t.Errorf("pending payment order: got %v, want %v", err, service.ErrNotReturnable)
	}
}

func TestRequestReturn_DuplicateRejected(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	// RET-2001 already references SO-0900.
	st.InsertOrder(model.Settlement{
		ID:           "SET-0900",
		SalesOrderID: "SO-0900",
		TotalAmount:  decimal.NewFromInt(18000),
		PaidAmount:   decimal.NewFromInt(18000),
		Status:       enum.OrderStatusPaid,
	})

	if _, err := returns.RequestReturn("SET-0900"); !errors.Is(err, service.ErrReturnExists) {
		t.Errorf("got %v, want %v", err, service.ErrReturnExists)
	}
}

// --- Return audit and refund ---

func TestReturnAudit_PassThenRefund(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	passed, err := returns.AuditPass("RET-2001")
	if err != nil {
		t.Fatalf("audit pass: %v", err)
	}
	if passed.Status != enum.ReturnStatusPendingRefund {
		t.Errorf("status: got %s, want %s", passed.Status, enum.ReturnStatusPendingRefund)
	}

	refunded, err := returns.ConfirmRefund("RET-2001", enum.PaymentMethodOffline, false)
	if err != nil {
		t.Fatalf("confirm refund: %v", err)
	}
	if refunded.Status != enum.ReturnStatusCompleted {
		t.Errorf("status: got %s, want %s", refunded.Status, enum.ReturnStatusCompleted)
	}
	if refunded.RefundMethod != enum.PaymentMethodOffline {
		t.Errorf("refund method: got %s, want %s", refunded.RefundMethod, enum.PaymentMethodOffline)
	}
}

func TestReturnAuditReject_DeadEnd(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	rejected, err := returns.AuditReject("RET-2001")
	if err != nil {
		t.Fatalf("audit reject: %v", err)
	}
	if rejected.Status != enum.ReturnStatusAuditRejected {
		t.Errorf("status: got %s, want %s", rejected.Status, enum.ReturnStatusAuditRejected)
	}

	if _, err := returns.AuditPass("RET-2001"); !errors.Is(err, service.ErrReturnNotInAudit) {
		t.Errorf("pass after reject: got %v, want %v", err, service.ErrReturnNotInAudit)
	}
}

func TestConfirmRefund_Guards(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	if _, err := returns.ConfirmRefund("RET-2001", "cheque", false); !errors.Is(err, service.ErrInvalidRefundMethod) {
		t.Errorf("bad method: got %v, want %v", err, service.ErrInvalidRefundMethod)
	}
	// Still pending audit, refund not reachable yet.
	if _, err := returns.ConfirmRefund("RET-2001", enum.PaymentMethodOnline, false); !errors.Is(err, service.ErrRefundNotPending) {
		t.Errorf("before audit: got %v, want %v", err, service.ErrRefundNotPending)
	}
	if _, err := returns.ConfirmRefund("RET-999", enum.PaymentMethodOnline, false); !errors.Is(err, service.ErrReturnNotFound) {
		t.Errorf("unknown return: got %v, want %v", err, service.ErrReturnNotFound)
	}
}

func TestComplete_RequiresNothingPaid(t *testing.T) {
	st := newSeededStore()
	returns := newReturnService(st, nil)

	// RET-2001 carries an 18000 paid amount; it must go through the refund.
	if _, err := returns.AuditPass("RET-2001"); err != nil {
		t.Fatalf("audit pass: %v", err)
	}
	if _, err := returns.Complete("RET-2001", false); !errors.Is(err, service.ErrRefundRequired) {
		t.Errorf("paid return: got %v, want %v", err, service.ErrRefundRequired)
	}
}

func TestComplete_ZeroPaidReturnSkipsRefund(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)

	restocked := 0
	returns := newReturnService(st, &mockRestocker{
		restockFn: func(items []model.Product) { restocked = len(items) },
	})

	ret, err := returns.RequestCancel(orderID)
	if err != nil {
		t.Fatalf("request cancel: %v", err)
	}
	if _, err := returns.AuditPass(ret.ID); err != nil {
		t.Fatalf("audit pass: %v", err)
	}

	completed, err := returns.Complete(ret.ID, true)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != enum.ReturnStatusCompleted {
		t.Errorf("status: got %s, want %s", completed.Status, enum.ReturnStatusCompleted)
	}
	if restocked != 1 {
		t.Errorf("restocked items: got %d, want 1", restocked)
	}
}

func TestStoreRestocker_RelistsMissingItems(t *testing.T) {
	st := newSeededStore()
	restocker := &service.StoreRestocker{Store: st}
	before := len(st.Products())

	sold := model.Product{ID: "sold-1", Title: "Retired Cartier Tank", Price: decimal.NewFromInt(42000)}
	existing, _ := st.GetProduct("mcm-1")
	restocker.Restock([]model.Product{sold, existing})

	after := st.Products()
	if len(after) != before+1 {
		t.Fatalf("catalog size: got %d, want %d", len(after), before+1)
	}
	if _, err := st.GetProduct("sold-1"); err != nil {
		t.Errorf("relisted item not found: %v", err)
	}
}
