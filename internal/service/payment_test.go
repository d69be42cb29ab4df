package service_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/service"
	"github.com/reluxe-pos/app/internal/store"
)

// payableOrder submits a 3000 order and jumps it to pending_payment.
func payableOrder(t *testing.T, st *store.Store) string {
	t.Helper()
	orders := newOrderService(st)
	order := submitOrder(t, orders, 3000)
	if _, err := orders.SkipToSettlement(order.ID, "Manager"); err != nil {
		t.Fatalf("skip to settlement: %v", err)
	}
	return order.ID
}

func newPaymentService(st *store.Store) *service.PaymentService {
	return service.NewPaymentService(st, event.NewHub(), 256)
}

func TestOfflinePay_PartialThenFull(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	first, err := pay.OfflinePay(orderID, decimal.NewFromInt(1500))
	if err != nil {
		t.Fatalf("first installment: %v", err)
	}
	if first.Status != enum.OrderStatusPendingPayment {
		t.Errorf("status after partial: got %s, want %s", first.Status, enum.OrderStatusPendingPayment)
	}
	if want := decimal.NewFromInt(1500); !first.PaidAmount.Equal(want) {
		t.Errorf("paid after partial: got %s, want %s", first.PaidAmount, want)
	}

	second, err := pay.OfflinePay(orderID, decimal.NewFromInt(1500))
	if err != nil {
		t.Fatalf("second installment: %v", err)
	}
	if second.Status != enum.OrderStatusPaid {
		t.Errorf("status after full: got %s, want %s", second.Status, enum.OrderStatusPaid)
	}
	if want := decimal.NewFromInt(3000); !second.PaidAmount.Equal(want) {
		t.Errorf("paid after full: got %s, want %s", second.PaidAmount, want)
	}
	if !second.Remaining().IsZero() {
		t.Errorf("remaining: got %s, want 0", second.Remaining())
	}

	// A third payment has nothing left to cover.
	if _, err := pay.OfflinePay(orderID, decimal.NewFromInt(1)); !errors.Is(err, service.ErrAlreadyPaid) {
		t.Errorf("third installment: got %v, want %v", err, service.ErrAlreadyPaid)
	}
}

func TestOfflinePay_RejectsOverpayment(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	if _, err := pay.OfflinePay(orderID, decimal.NewFromInt(3001)); !errors.Is(err, service.ErrExceedsBalance) {
		t.Fatalf("got %v, want %v", err, service.ErrExceedsBalance)
	}

	order, _ := st.GetOrder(orderID)
	if !order.PaidAmount.IsZero() {
		t.Errorf("paid amount after rejected payment: got %s, want 0", order.PaidAmount)
	}
}

func TestOfflinePay_RejectsNonPositiveAmounts(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := pay.OfflinePay(orderID, amount); !errors.Is(err, service.ErrNonPositiveAmount) {
			t.Errorf("amount %s: got %v, want %v", amount, err, service.ErrNonPositiveAmount)
		}
	}
}

func TestOfflinePay_InvalidTargets(t *testing.T) {
	st := newSeededStore()
	pay := newPaymentService(st)

	if _, err := pay.OfflinePay("SET-999", decimal.NewFromInt(100)); !errors.Is(err, service.ErrOrderNotFound) {
		t.Errorf("unknown order: got %v, want %v", err, service.ErrOrderNotFound)
	}

	// A freshly submitted order is still under audit, not payable.
	order := submitOrder(t, newOrderService(st), 3000)
	if _, err := pay.OfflinePay(order.ID, decimal.NewFromInt(100)); !errors.Is(err, service.ErrNotPayable) {
		t.Errorf("order under audit: got %v, want %v", err, service.ErrNotPayable)
	}
}

func TestComplete_RequiresFullPayment(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	if _, err := pay.Complete(orderID); !errors.Is(err, service.ErrNotPaid) {
		t.Fatalf("unpaid order: got %v, want %v", err, service.ErrNotPaid)
	}

	if _, err := pay.OfflinePay(orderID, decimal.NewFromInt(3000)); err != nil {
		t.Fatalf("pay in full: %v", err)
	}
	completed, err := pay.Complete(orderID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != enum.OrderStatusCompleted {
		t.Errorf("status: got %s, want %s", completed.Status, enum.OrderStatusCompleted)
	}
}

func TestPaymentQR_RendersPNG(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	png, err := pay.PaymentQR(orderID, decimal.NewFromInt(3000), "Reluxe Resale")
	if err != nil {
		t.Fatalf("payment qr: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("rendered bytes are not a PNG")
	}
}

func TestPaymentQR_BalanceGuard(t *testing.T) {
	st := newSeededStore()
	orderID := payableOrder(t, st)
	pay := newPaymentService(st)

	if _, err := pay.PaymentQR(orderID, decimal.NewFromInt(3001), ""); !errors.Is(err, service.ErrExceedsBalance) {
		t.Errorf("over balance: got %v, want %v", err, service.ErrExceedsBalance)
	}

	if _, err := pay.OfflinePay(orderID, decimal.NewFromInt(3000)); err != nil {
		t.Fatalf("pay in full: %v", err)
	}
	if _, err := pay.PaymentQR(orderID, decimal.NewFromInt(1), ""); !errors.Is(err, service.ErrNotPayable) {
		t.Errorf("paid order: got %v, want %v", err, service.ErrNotPayable)
	}
}
