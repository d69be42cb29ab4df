package main

import (
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/app"
	"github.com/reluxe-pos/app/internal/config"
	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/event"
	"github.com/reluxe-pos/app/internal/nav"
	"github.com/reluxe-pos/app/internal/store"
)

// Runs a scripted pass through the order lifecycle against the seeded
// in-memory dataset: checkout, audit, settlement, partial then full payment,
// invoicing, and a post-sale return with refund.
func main() {
	cfg := config.Load()

	st := store.New()
	store.Seed(st)

	hub := event.NewHub()
	var wg sync.WaitGroup
	cancels := make([]func(), 0, 5)
	for _, topic := range []string{
		event.TopicOrders,
		event.TopicPayments,
		event.TopicReturns,
		event.TopicMembers,
		event.TopicInvoices,
	} {
		ch, cancel := hub.Subscribe(topic, 64)
		cancels = append(cancels, cancel)
		wg.Add(1)
		go func(topic string, ch <-chan event.Event) {
			defer wg.Done()
			for e := range ch {
				log.Printf("EVENT [%s] %s: %s", topic, e.Type, e.Payload)
			}
		}(topic, ch)
	}

	a := app.New(cfg, st, hub)
	log.Printf("%s starting on screen %q", cfg.StoreName, a.View())

	must := func(err error) {
		if err != nil {
			log.Fatalf("walkthrough failed: %v", err)
		}
	}

	// Checkout: a listed bag plus a negotiable watch priced at the counter.
	a.OpenProductList()
	must(a.AddToCart("mcm-1", decimal.Zero))
	must(a.AddToCart("pp-1", decimal.NewFromInt(8800)))
	must(a.Checkout())
	a.OpenMemberSelection()
	must(a.SelectMember("m-2"))

	order, err := a.SubmitOrder(enum.PaymentMethodOffline, "mc-1")
	must(err)
	log.Printf("Submitted %s for %s, status %s", order.ID, order.TotalAmount.StringFixed(2), order.Status)

	// The buyer is unverified, so verification runs from the audit screen
	// and control returns there afterwards.
	must(a.OpenVerification(nav.ViewOrderAudit))
	member, err := a.VerificationSucceeded()
	must(err)
	log.Printf("Verified member %s, back on %q", member.Name, a.View())

	_, err = a.AuditPass()
	must(err)
	_, err = a.SkipToSettlement()
	must(err)

	// Pay in two installments; the QR is rendered for the second one.
	half := order.TotalAmount.Div(decimal.NewFromInt(2))
	must(a.OpenPayment())
	order, err = a.OfflinePay(half)
	must(err)
	log.Printf("Partial payment: paid %s of %s, status %s",
		order.PaidAmount.StringFixed(2), order.TotalAmount.StringFixed(2), order.Status)

	png, err := a.PaymentQR(order.Remaining(), cfg.StoreName)
	must(err)
	log.Printf("Rendered payment QR (%d bytes)", len(png))

	order, err = a.OfflinePay(order.Remaining())
	must(err)
	log.Printf("Settled: paid %s, status %s", order.PaidAmount.StringFixed(2), order.Status)

	// Invoice against the default company title, then close out the order.
	must(a.OpenInvoiceApplication(nav.ViewPaymentSuccess))
	_, err = a.SubmitInvoiceApplication("inv-1")
	must(err)

	order, err = a.CompleteOrder()
	must(err)
	log.Printf("Order %s is %s", order.ID, order.Status)

	// Post-sale return with refund and restock.
	a.OpenOrderList()
	must(a.OpenOrderDetail(order.ID))
	ret, err := a.RequestReturn()
	must(err)
	log.Printf("Return %s opened against %s for %s", ret.ID, ret.OriginalOrderID, ret.Amount.StringFixed(2))

	must(a.OpenReturnOrderDetail(ret.ID))
	_, err = a.ReturnAuditPass()
	must(err)
	must(a.OpenReturnSettlement())
	ret, err = a.ConfirmRefund(enum.PaymentMethodOffline, true)
	must(err)
	log.Printf("Return %s is %s, refunded via %s", ret.ID, ret.Status, ret.RefundMethod)

	for _, cancel := range cancels {
		cancel()
	}
	wg.Wait()

	log.Printf("Done: %d orders, %d return orders, %d products in catalog",
		len(st.Orders()), len(st.ReturnOrders()), len(st.Products()))
}
