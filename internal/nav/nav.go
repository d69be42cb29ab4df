// Package nav tracks which screen is current and where shared sub-flows
// return to. Navigation is by assignment, not a history stack: each screen
// knows its own back target. The exception is the three sub-flows that can
// be entered from several origins; those carry a continuation record so
// completion returns to the correct caller.
package nav

import "sync"

// View identifies a screen.
type View string

const (
	ViewDashboard              View = "dashboard"
	ViewProductList            View = "productList"
	ViewCart                   View = "cart"
	ViewBrandSelection         View = "brandSelection"
	ViewCheckout               View = "checkout"
	ViewSearch                 View = "search"
	ViewProductDetail          View = "productDetail"
	ViewMemberSelection        View = "memberSelection"
	ViewMemberManagement       View = "memberManagement"
	ViewMemberAccount          View = "memberAccount"
	ViewMemberDetail           View = "memberDetail"
	ViewEditMember             View = "editMember"
	ViewAddMember              View = "addMember"
	ViewMemberVerification     View = "memberVerification"
	ViewMemberSelfRegistration View = "memberSelfRegistration"
	ViewInvoiceManagement      View = "invoiceManagement"
	ViewAddInvoiceTitle        View = "addInvoiceTitle"
	ViewSettlementDetail       View = "settlementDetail"
	ViewPayment                View = "payment"
	ViewPaymentQRCode          View = "paymentQRCode"
	ViewQRCodeDisplay          View = "qrCodeDisplay"
	ViewPaymentSuccess         View = "paymentSuccess"
	ViewOrderList              View = "orderList"
	ViewOrderDetail            View = "orderDetail"
	ViewOrderStats             View = "orderStats"
	ViewSalesPersonSelection   View = "salesPersonSelection"
	ViewOrderAudit             View = "orderAudit"
	ViewReturnOrderDetail      View = "returnOrderDetail"
	ViewReturnOrderList        View = "returnOrderList"
	ViewMessageCenter          View = "messageCenter"
	ViewContractUpload         View = "contractUpload"
	ViewContractDetail         View = "contractDetail"
	ViewRecycleOrderList       View = "recycleOrderList"
	ViewSalesInvoiceApp        View = "salesInvoiceApplication"
	ViewSalesInvoiceSuccess    View = "salesInvoiceSuccess"
	ViewReturnSettlement       View = "returnSettlement"
)

// Flow identifies a shared sub-flow reachable from multiple origins.
type Flow string

const (
	FlowVerification    Flow = "memberVerification"
	FlowInvoice         Flow = "salesInvoiceApplication"
	FlowSalesPersonPick Flow = "salesPersonSelection"
)

// continuation records where a sub-flow entry came from.
type continuation struct {
	flow     Flow
	returnTo View
}

// Controller is the single current-screen selector plus the per-flow
// continuation records.
type Controller struct {
	mu      sync.Mutex
	current View
	conts   []continuation
}

// New creates a Controller showing the dashboard.
func New() *Controller {
	return &Controller{current: ViewDashboard}
}

// Current returns the screen being shown.
func (c *Controller) Current() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Go navigates directly to a screen.
func (c *Controller) Go(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = v
}

// Enter starts a shared sub-flow: the screen becomes current and the origin
// is recorded. Re-entering a flow overwrites its previous record, so a stale
// return address can never win over the most recent entry.
func (c *Controller) Enter(flow Flow, screen, returnTo View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.conts {
		if c.conts[i].flow == flow {
			c.conts[i].returnTo = returnTo
			c.current = screen
			return
		}
	}
	c.conts = append(c.conts, continuation{flow: flow, returnTo: returnTo})
	c.current = screen
}

// Complete finishes (or cancels) a sub-flow: control returns to the recorded
// origin and the record is consumed. Reports false when the flow was never
// entered; the current screen is left unchanged in that case.
func (c *Controller) Complete(flow Flow) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.conts {
		if c.conts[i].flow == flow {
			target := c.conts[i].returnTo
			c.conts = append(c.conts[:i], c.conts[i+1:]...)
			c.current = target
			return target, true
		}
	}
	return c.current, false
}
