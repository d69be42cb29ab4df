package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// Errors returned by the invoice service.
var (
	ErrInvalidInvoiceTitle  = errors.New("invalid invoice title")
	ErrInvoiceTitleNotFound = errors.New("invoice title not found")
)

// AddInvoiceTitleRequest is the add-title form. Company titles must carry a
// tax id; personal ones must not be forced to.
type AddInvoiceTitleRequest struct {
	Type      string `validate:"required,oneof=company personal"`
	Title     string `validate:"required"`
	TaxID     string `validate:"required_if=Type company"`
	IsDefault bool

	BankName        string
	BankAccount     string
	RegisterAddress string
	RegisterPhone   string

	InvoiceKind    string `validate:"omitempty,oneof=general special"`
	InvoiceContent string `validate:"omitempty,oneof=details category"`
	Email          string `validate:"omitempty,email"`
}

// InvoiceService manages billing titles and invoice applications.
type InvoiceService struct {
	store    *store.Store
	hub      *event.Hub
	validate *validator.Validate
	newID    func() string
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(st *store.Store, hub *event.Hub) *InvoiceService {
	return &InvoiceService{
		store:    st,
		hub:      hub,
		validate: validator.New(),
		newID:    func() string { return uuid.NewString()[:8] },
	}
}

// WithIDGenerator overrides the id source.
func (s *InvoiceService) WithIDGenerator(gen func() string) *InvoiceService {
	s.newID = gen
	return s
}

// AddTitle creates a billing title. At most one title is flagged default;
// the store clears the flag from the others.
func (s *InvoiceService) AddTitle(req AddInvoiceTitleRequest) (*model.InvoiceTitle, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInvoiceTitle, err)
	}

	title := model.InvoiceTitle{
		ID:              "inv-" + s.newID(),
		Type:            req.Type,
		Title:           req.Title,
		TaxID:           req.TaxID,
		IsDefault:       req.IsDefault,
		BankName:        req.BankName,
		BankAccount:     req.BankAccount,
		RegisterAddress: req.RegisterAddress,
		RegisterPhone:   req.RegisterPhone,
		InvoiceKind:     req.InvoiceKind,
		InvoiceContent:  req.InvoiceContent,
		Email:           req.Email,
	}
	s.store.InsertInvoiceTitle(title)

	s.hub.Publish(event.TopicInvoices, "invoice_title.added", title)
	return &title, nil
}

// UpdateTitle replaces an existing billing title.
func (s *InvoiceService) UpdateTitle(t model.InvoiceTitle) (*model.InvoiceTitle, error) {
	if err := s.validate.Struct(AddInvoiceTitleRequest{
		Type:           t.Type,
		Title:          t.Title,
		TaxID:          t.TaxID,
		InvoiceKind:    t.InvoiceKind,
		InvoiceContent: t.InvoiceContent,
		Email:          t.Email,
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInvoiceTitle, err)
	}

	if err := s.store.ReplaceInvoiceTitle(t); err != nil {
		return nil, ErrInvoiceTitleNotFound
	}

	s.hub.Publish(event.TopicInvoices, "invoice_title.updated", t)
	return &t, nil
}

// Apply records an invoice application for an order under the given title.
func (s *InvoiceService) Apply(orderID, titleID string) (*model.Settlement, error) {
	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return nil, ErrOrderNotFound
	}
	if _, err := s.store.GetInvoiceTitle(titleID); err != nil {
		return nil, ErrInvoiceTitleNotFound
	}

	order.InvoiceTitleID = titleID
	if err := s.store.ReplaceOrder(order); err != nil {
		return nil, fmt.Errorf("replace order: %w", err)
	}

	s.hub.Publish(event.TopicInvoices, "invoice.applied", order)
	return &order, nil
}
