package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// Errors returned by the payment service.
var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNotPayable        = errors.New("order is not awaiting payment")
	ErrAlreadyPaid       = errors.New("order is already fully paid")
	ErrExceedsBalance    = errors.New("payment exceeds remaining balance")
	ErrNotPaid           = errors.New("order is not fully paid")
)

// PaymentService accumulates offline payments against a settlement and
// renders payment QR codes. No gateway is contacted.
type PaymentService struct {
	store  *store.Store
	hub    *event.Hub
	qrSize int
}

// NewPaymentService creates a new PaymentService. qrSize is the rendered
// QR image edge length in pixels.
func NewPaymentService(st *store.Store, hub *event.Hub, qrSize int) *PaymentService {
	if qrSize <= 0 {
		qrSize = 256
	}
	return &PaymentService{store: st, hub: hub, qrSize: qrSize}
}

// paymentReceived is the event payload for a recorded payment.
type paymentReceived struct {
	SettlementID string `json:"settlement_id"`
	Amount       string `json:"amount"`
	PaidAmount   string `json:"paid_amount"`
	Status       string `json:"status"`
}

// OfflinePay records a payment. Partial payments accumulate; the order
// becomes paid once the total is covered. Amounts that would overshoot the
// remaining balance are rejected, never clamped.
func (s *PaymentService) OfflinePay(orderID string, amount decimal.Decimal) (*model.Settlement, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status == enum.OrderStatusPaid || order.Status == enum.OrderStatusCompleted {
		return nil, ErrAlreadyPaid
	}
	if order.Status != enum.OrderStatusPendingPayment {
		return nil, ErrNotPayable
	}
	if amount.GreaterThan(order.Remaining()) {
		return nil, ErrExceedsBalance
	}

	order.PaidAmount = order.PaidAmount.Add(amount)
	order.PaymentMethod = enum.PaymentMethodOffline
	if order.PaidAmount.GreaterThanOrEqual(order.TotalAmount) {
		order.Status = enum.OrderStatusPaid
	}
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicPayments, "payment.received", paymentReceived{
		SettlementID: order.ID,
		Amount:       amount.StringFixed(2),
		PaidAmount:   order.PaidAmount.StringFixed(2),
		Status:       order.Status,
	})
	return &order, nil
}

// Complete marks a fully paid order as completed (goods handed over).
func (s *PaymentService) Complete(orderID string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPaid {
		return nil, ErrNotPaid
	}

	order.Status = enum.OrderStatusCompleted
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicOrders, "order.completed", order)
	return &order, nil
}

// qrPayload is what the customer's wallet scans.
type qrPayload struct {
	SettlementID string `json:"settlement_id"`
	Amount       string `json:"amount"`
	Label        string `json:"label"`
	Type         string `json:"type"`
	IssuedAt     int64  `json:"issued_at"`
}

// PaymentQR renders a PNG QR code for collecting the given amount against an
// order. The same balance guard applies as for offline payments, so a code
// for more than the remaining balance can never be shown.
func (s *PaymentService) PaymentQR(orderID string, amount decimal.Decimal, label string) ([]byte, error) {
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != enum.OrderStatusPendingPayment {
		return nil, ErrNotPayable
	}
	if amount.GreaterThan(order.Remaining()) {
		return nil, ErrExceedsBalance
	}

	data, err := json.Marshal(qrPayload{
		SettlementID: order.ID,
		Amount:       amount.StringFixed(2),
		Label:        label,
		Type:         "payment",
		IssuedAt:     time.Now().Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal qr payload: %w", err)
	}

	qr, err := qrcode.New(string(data), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("create qr code: %w", err)
	}
	png, err := qr.PNG(s.qrSize)
	if err != nil {
		return nil, fmt.Errorf("render qr png: %w", err)
	}
	return png, nil
}
