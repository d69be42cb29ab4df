// Package app is the top-level state container: one screen selector, the
// current selections, and typed methods for every transition a screen can
// trigger. All lifecycle mutation goes through the services; screens never
// touch the store directly.
package app

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/config"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/nav"
	"github.com/reluxe-pos/app/internal/service"
	"github.com/reluxe-pos/app/internal/store"
)

// Errors returned by the app facade.
var (
	ErrNoSelectedMember = errors.New("no member selected")
	ErrNoCurrentOrder   = errors.New("no order selected")
	ErrNoCurrentReturn  = errors.New("no return order selected")
	ErrEmptyCheckout    = errors.New("nothing to check out")
	ErrBadOrigin        = errors.New("flow cannot be entered from this screen")
	ErrProductNotFound  = errors.New("product not found")
	ErrEmployeeNotFound = errors.New("employee not found")
)

// App wires the store, navigation controller, and lifecycle services behind
// the callback contract the screens consume.
type App struct {
	cfg   *config.Config
	store *store.Store
	nav   *nav.Controller

	orders   *service.OrderService
	payments *service.PaymentService
	returns  *service.ReturnService
	members  *service.MemberService
	invoices *service.InvoiceService

	cart          []model.Product
	checkoutItems []model.Product

	selectedMember   *model.Member
	selectedMerchant *model.Merchant
	selectedInvoice  *model.InvoiceTitle
	salesFilter      *model.Employee

	currentOrderID  string
	currentReturnID string
}

// New creates the app over a (typically seeded) store.
func New(cfg *config.Config, st *store.Store, hub *event.Hub) *App {
	return &App{
		cfg:      cfg,
		store:    st,
		nav:      nav.New(),
		orders:   service.NewOrderService(st, hub),
		payments: service.NewPaymentService(st, hub, cfg.QRSize),
		returns:  service.NewReturnService(st, hub, &service.StoreRestocker{Store: st}),
		members:  service.NewMemberService(st, hub),
		invoices: service.NewInvoiceService(st, hub),
	}
}

// View returns the current screen.
func (a *App) View() nav.View { return a.nav.Current() }

// Store exposes read access for list screens.
func (a *App) Store() *store.Store { return a.store }

// --- Browsing and cart ---

func (a *App) OpenProductList() { a.nav.Go(nav.ViewProductList) }
func (a *App) OpenCart()        { a.nav.Go(nav.ViewCart) }

// AddToCart puts a product in the cart. A positive price overrides the
// listed one (negotiable items are priced here); adding a product already in
// the cart replaces the line, so a renegotiated price wins.
func (a *App) AddToCart(productID string, price decimal.Decimal) error {
	product, err := a.store.GetProduct(productID)
	if err != nil {
		return ErrProductNotFound
	}
	if price.IsPositive() {
		product.Price = price
	}
	for i := range a.cart {
		if a.cart[i].ID == product.ID {
			cart := append([]model.Product(nil), a.cart...)
			cart[i] = product
			a.cart = cart
			return nil
		}
	}
	a.cart = append(a.cart, product)
	return nil
}

// Cart returns the cart lines.
func (a *App) Cart() []model.Product {
	return append([]model.Product(nil), a.cart...)
}

// BuyNow checks out a single product immediately.
func (a *App) BuyNow(productID string, price decimal.Decimal) error {
	product, err := a.store.GetProduct(productID)
	if err != nil {
		return ErrProductNotFound
	}
	if price.IsPositive() {
		product.Price = price
	}
	a.checkoutItems = []model.Product{product}
	a.nav.Go(nav.ViewCheckout)
	return nil
}

// Checkout moves the cart contents to the checkout screen.
func (a *App) Checkout() error {
	if len(a.cart) == 0 {
		return ErrEmptyCheckout
	}
	a.checkoutItems = append([]model.Product(nil), a.cart...)
	a.nav.Go(nav.ViewCheckout)
	return nil
}

// --- Member selection ---

func (a *App) OpenMemberSelection() { a.nav.Go(nav.ViewMemberSelection) }

// SelectMember picks the checkout member and returns to checkout.
func (a *App) SelectMember(memberID string) error {
	member, err := a.store.GetMember(memberID)
	if err != nil {
		return service.ErrMemberNotFound
	}
	a.selectedMember = &member
	a.nav.Go(nav.ViewCheckout)
	return nil
}

func (a *App) ClearSelectedMember() { a.selectedMember = nil }

// SelectedMember returns the current selection, if any.
func (a *App) SelectedMember() (model.Member, bool) {
	if a.selectedMember == nil {
		return model.Member{}, false
	}
	return *a.selectedMember, true
}

// --- Checkout and audit ---

// SubmitOrder creates the settlement from the checkout screen and enters
// the audit step.
func (a *App) SubmitOrder(method, merchantID string) (*model.Settlement, error) {
	if a.selectedMember == nil {
		return nil, ErrNoSelectedMember
	}
	if len(a.checkoutItems) == 0 {
		return nil, ErrEmptyCheckout
	}

	items := make([]service.SubmitOrderItem, len(a.checkoutItems))
	for i, item := range a.checkoutItems {
		items[i] = service.SubmitOrderItem{ProductID: item.ID, Price: item.Price}
	}

	req := service.SubmitOrderRequest{
		MemberID:      a.selectedMember.ID,
		MerchantID:    merchantID,
		PaymentMethod: method,
		Items:         items,
	}
	if a.selectedInvoice != nil {
		req.InvoiceTitleID = a.selectedInvoice.ID
	}

	order, err := a.orders.Submit(req)
	if err != nil {
		return nil, err
	}
	if merchant, merr := a.store.GetMerchant(merchantID); merr == nil {
		a.selectedMerchant = &merchant
	}
	a.currentOrderID = order.ID
	a.nav.Go(nav.ViewOrderAudit)
	return order, nil
}

// AuditPass records a pass; the screen stays on the audit page so the user
// can choose between signing and skipping.
func (a *App) AuditPass() (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	return a.orders.AuditPass(a.currentOrderID, a.cfg.Approver)
}

// AuditReject records the rejection and returns to the order list.
func (a *App) AuditReject(reason string) (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.orders.AuditReject(a.currentOrderID, reason, a.cfg.Approver)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewOrderList)
	return order, nil
}

// SkipToSettlement jumps past contract signing to the settlement screen.
func (a *App) SkipToSettlement() (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.orders.SkipToSettlement(a.currentOrderID, a.cfg.Approver)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewSettlementDetail)
	return order, nil
}

// GoToContractUpload moves a passed order into signing and opens the
// offline contract upload screen.
func (a *App) GoToContractUpload() (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.orders.ProceedToSign(a.currentOrderID)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewContractUpload)
	return order, nil
}

// CompleteContractUpload stores the proof images and moves on to settlement.
func (a *App) CompleteContractUpload(proofs []string) (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.orders.CompleteContractUpload(a.currentOrderID, proofs)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewSettlementDetail)
	return order, nil
}

// --- Payment ---

// OpenSettlementDetail selects an order and shows its settlement screen.
func (a *App) OpenSettlementDetail(orderID string) error {
	if _, err := a.store.GetOrder(orderID); err != nil {
		return service.ErrOrderNotFound
	}
	a.currentOrderID = orderID
	a.nav.Go(nav.ViewSettlementDetail)
	return nil
}

func (a *App) OpenPayment() error {
	if a.currentOrderID == "" {
		return ErrNoCurrentOrder
	}
	a.nav.Go(nav.ViewPayment)
	return nil
}

// OfflinePay records an offline payment on the current order.
func (a *App) OfflinePay(amount decimal.Decimal) (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.payments.OfflinePay(a.currentOrderID, amount)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewPaymentSuccess)
	return order, nil
}

// PaymentQR renders a collection QR code for the current order.
func (a *App) PaymentQR(amount decimal.Decimal, label string) ([]byte, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	png, err := a.payments.PaymentQR(a.currentOrderID, amount, label)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewQRCodeDisplay)
	return png, nil
}

// CompleteOrder marks the current fully-paid order as completed.
func (a *App) CompleteOrder() (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	return a.payments.Complete(a.currentOrderID)
}

// FinishPayment leaves the payment-success screen for the order list.
func (a *App) FinishPayment() { a.nav.Go(nav.ViewOrderList) }

// --- Orders ---

func (a *App) OpenOrderList() { a.nav.Go(nav.ViewOrderList) }

func (a *App) OpenOrderDetail(orderID string) error {
	if _, err := a.store.GetOrder(orderID); err != nil {
		return service.ErrOrderNotFound
	}
	a.currentOrderID = orderID
	a.nav.Go(nav.ViewOrderDetail)
	return nil
}

// CurrentOrder fetches the selected order from the store.
func (a *App) CurrentOrder() (model.Settlement, error) {
	if a.currentOrderID == "" {
		return model.Settlement{}, ErrNoCurrentOrder
	}
	return a.store.GetOrder(a.currentOrderID)
}

// CancelOrder cancels the current pre-payment order, spawning its return
// request, and goes back to the order list.
func (a *App) CancelOrder() (*model.ReturnOrder, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	ret, err := a.returns.RequestCancel(a.currentOrderID)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewOrderList)
	return ret, nil
}

// RequestReturn opens a return against the current paid order.
func (a *App) RequestReturn() (*model.ReturnOrder, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	ret, err := a.returns.RequestReturn(a.currentOrderID)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewOrderList)
	return ret, nil
}

func (a *App) OpenContractDetail() error {
	if a.currentOrderID == "" {
		return ErrNoCurrentOrder
	}
	a.nav.Go(nav.ViewContractDetail)
	return nil
}

// FilteredOrders applies the salesperson filter when one is set.
func (a *App) FilteredOrders() []model.Settlement {
	if a.salesFilter != nil {
		return a.store.OrdersByEmployee(a.salesFilter.ID)
	}
	return a.store.Orders()
}

// --- Returns ---

func (a *App) OpenReturnOrderList() { a.nav.Go(nav.ViewReturnOrderList) }

func (a *App) OpenReturnOrderDetail(returnID string) error {
	if _, err := a.store.GetReturnOrder(returnID); err != nil {
		return service.ErrReturnNotFound
	}
	a.currentReturnID = returnID
	a.nav.Go(nav.ViewReturnOrderDetail)
	return nil
}

// CurrentReturn fetches the selected return order.
func (a *App) CurrentReturn() (model.ReturnOrder, error) {
	if a.currentReturnID == "" {
		return model.ReturnOrder{}, ErrNoCurrentReturn
	}
	return a.store.GetReturnOrder(a.currentReturnID)
}

// ReturnAuditPass approves the return; the detail screen stays open so the
// operator can continue to the refund settlement.
func (a *App) ReturnAuditPass() (*model.ReturnOrder, error) {
	if a.currentReturnID == "" {
		return nil, ErrNoCurrentReturn
	}
	return a.returns.AuditPass(a.currentReturnID)
}

// ReturnAuditReject declines the return and goes back to the list.
func (a *App) ReturnAuditReject() (*model.ReturnOrder, error) {
	if a.currentReturnID == "" {
		return nil, ErrNoCurrentReturn
	}
	ret, err := a.returns.AuditReject(a.currentReturnID)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewReturnOrderList)
	return ret, nil
}

func (a *App) OpenReturnSettlement() error {
	if a.currentReturnID == "" {
		return ErrNoCurrentReturn
	}
	a.nav.Go(nav.ViewReturnSettlement)
	return nil
}

// ConfirmRefund settles the refund and returns to the list.
func (a *App) ConfirmRefund(method string, restock bool) (*model.ReturnOrder, error) {
	if a.currentReturnID == "" {
		return nil, ErrNoCurrentReturn
	}
	ret, err := a.returns.ConfirmRefund(a.currentReturnID, method, restock)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewReturnOrderList)
	return ret, nil
}

// CompleteReturn finishes a return that needs no refund settlement.
func (a *App) CompleteReturn(restock bool) (*model.ReturnOrder, error) {
	if a.currentReturnID == "" {
		return nil, ErrNoCurrentReturn
	}
	ret, err := a.returns.Complete(a.currentReturnID, restock)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewReturnOrderList)
	return ret, nil
}

// FilteredReturnOrders applies the salesperson filter when one is set.
func (a *App) FilteredReturnOrders() []model.ReturnOrder {
	if a.salesFilter != nil {
		return a.store.ReturnOrdersByEmployee(a.salesFilter.ID)
	}
	return a.store.ReturnOrders()
}

// --- Salesperson filter flow (shared by order and return lists) ---

// OpenSalesPersonPicker enters the picker, recording which list it was
// opened from so confirmation returns there.
func (a *App) OpenSalesPersonPicker(from nav.View) error {
	if from != nav.ViewOrderList && from != nav.ViewReturnOrderList {
		return ErrBadOrigin
	}
	a.nav.Enter(nav.FlowSalesPersonPick, nav.ViewSalesPersonSelection, from)
	return nil
}

// ConfirmSalesPerson sets the filter and returns to the originating list.
func (a *App) ConfirmSalesPerson(employeeID string) error {
	employee, err := a.store.GetEmployee(employeeID)
	if err != nil {
		return ErrEmployeeNotFound
	}
	a.salesFilter = &employee
	a.nav.Complete(nav.FlowSalesPersonPick)
	return nil
}

// CancelSalesPersonPicker leaves the picker without changing the filter.
func (a *App) CancelSalesPersonPicker() { a.nav.Complete(nav.FlowSalesPersonPick) }

func (a *App) ClearSalesPersonFilter() { a.salesFilter = nil }

// --- Identity verification flow (shared by three origins) ---

// OpenVerification enters the verification flow for the selected member.
func (a *App) OpenVerification(from nav.View) error {
	if from != nav.ViewMemberAccount && from != nav.ViewOrderAudit && from != nav.ViewContractUpload {
		return ErrBadOrigin
	}
	if a.selectedMember == nil {
		return ErrNoSelectedMember
	}
	a.nav.Enter(nav.FlowVerification, nav.ViewMemberVerification, from)
	return nil
}

// VerificationSucceeded flips the member to verified and propagates the new
// identity to the member list, the current selection, and the member
// embedded in the in-progress order, then returns to the originating screen.
func (a *App) VerificationSucceeded() (*model.Member, error) {
	if a.selectedMember == nil {
		return nil, ErrNoSelectedMember
	}
	member, err := a.members.Verify(a.selectedMember.ID)
	if err != nil {
		return nil, err
	}
	a.selectedMember = member

	if a.currentOrderID != "" {
		if order, oerr := a.store.GetOrder(a.currentOrderID); oerr == nil && order.Member.ID == member.ID {
			order.Member = *member
			if rerr := a.store.ReplaceOrder(order); rerr != nil {
				return nil, rerr
			}
		}
	}

	a.nav.Complete(nav.FlowVerification)
	return member, nil
}

// CancelVerification abandons the flow and returns to the origin.
func (a *App) CancelVerification() { a.nav.Complete(nav.FlowVerification) }

// --- Invoice application flow (shared by three origins) ---

// OpenInvoiceApplication enters the invoicing flow for the current order.
func (a *App) OpenInvoiceApplication(from nav.View) error {
	if from != nav.ViewPaymentSuccess && from != nav.ViewRecycleOrderList && from != nav.ViewOrderDetail {
		return ErrBadOrigin
	}
	if a.currentOrderID == "" {
		return ErrNoCurrentOrder
	}
	a.nav.Enter(nav.FlowInvoice, nav.ViewSalesInvoiceApp, from)
	return nil
}

// SubmitInvoiceApplication applies the title to the current order and shows
// the success screen. The continuation is consumed: success leads to the
// order list, only cancellation returns to the origin.
func (a *App) SubmitInvoiceApplication(titleID string) (*model.Settlement, error) {
	if a.currentOrderID == "" {
		return nil, ErrNoCurrentOrder
	}
	order, err := a.invoices.Apply(a.currentOrderID, titleID)
	if err != nil {
		return nil, err
	}
	a.nav.Complete(nav.FlowInvoice)
	a.nav.Go(nav.ViewSalesInvoiceSuccess)
	return order, nil
}

// CancelInvoiceApplication returns to wherever the flow was entered from.
func (a *App) CancelInvoiceApplication() { a.nav.Complete(nav.FlowInvoice) }

// --- Member management ---

func (a *App) OpenMemberManagement() { a.nav.Go(nav.ViewMemberManagement) }

// OpenMemberAccount selects a member from the management list.
func (a *App) OpenMemberAccount(memberID string) error {
	member, err := a.store.GetMember(memberID)
	if err != nil {
		return service.ErrMemberNotFound
	}
	a.selectedMember = &member
	a.nav.Go(nav.ViewMemberAccount)
	return nil
}

// AddMember creates an unverified member and returns to the management list.
func (a *App) AddMember(req service.AddMemberRequest) (*model.Member, error) {
	member, err := a.members.Add(req)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewMemberManagement)
	return member, nil
}

// SaveMember persists edits to the selected member.
func (a *App) SaveMember(m model.Member) (*model.Member, error) {
	updated, err := a.members.Update(m)
	if err != nil {
		return nil, err
	}
	if a.selectedMember != nil && a.selectedMember.ID == updated.ID {
		a.selectedMember = updated
	}
	a.nav.Go(nav.ViewMemberDetail)
	return updated, nil
}

// --- Invoice titles ---

func (a *App) OpenInvoiceManagement() { a.nav.Go(nav.ViewInvoiceManagement) }

// SelectInvoiceTitle picks the billing title for checkout.
func (a *App) SelectInvoiceTitle(titleID string) error {
	title, err := a.store.GetInvoiceTitle(titleID)
	if err != nil {
		return service.ErrInvoiceTitleNotFound
	}
	a.selectedInvoice = &title
	a.nav.Go(nav.ViewCheckout)
	return nil
}

// AddInvoiceTitle creates a billing title and returns to the list.
func (a *App) AddInvoiceTitle(req service.AddInvoiceTitleRequest) (*model.InvoiceTitle, error) {
	title, err := a.invoices.AddTitle(req)
	if err != nil {
		return nil, err
	}
	a.nav.Go(nav.ViewInvoiceManagement)
	return title, nil
}

// --- Misc screens ---

func (a *App) OpenRecycleOrderList() { a.nav.Go(nav.ViewRecycleOrderList) }
func (a *App) OpenMessageCenter()    { a.nav.Go(nav.ViewMessageCenter) }
func (a *App) OpenDashboard()        { a.nav.Go(nav.ViewDashboard) }
