package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/reluxe-pos/app/internal/model"
	"github.com/reluxe-pos/app/internal/store"
)

// dataset is the JSON shape of an exported fixture set.
type dataset struct {
	Products      []model.Product      `json:"products"`
	Members       []model.Member       `json:"members"`
	Employees     []model.Employee     `json:"employees"`
	Merchants     []model.Merchant     `json:"merchants"`
	InvoiceTitles []model.InvoiceTitle `json:"invoiceTitles"`
	Orders        []model.Settlement   `json:"orders"`
	ReturnOrders  []model.ReturnOrder  `json:"returnOrders"`
	RecycleOrders []model.RecycleOrder `json:"recycleOrders"`
}

func main() {
	// CLI flags
	out := flag.String("out", "", "Output file path (default: stdout)")
	compact := flag.Bool("compact", false, "Emit compact JSON instead of indented")
	flag.Parse()

	// Fall back to environment variable
	if *out == "" {
		*out = os.Getenv("SEED_OUT")
	}

	st := store.New()
	store.Seed(st)

	data := dataset{
		Products:      st.Products(),
		Members:       st.Members(),
		Employees:     st.Employees(),
		Merchants:     st.Merchants(),
		InvoiceTitles: st.InvoiceTitles(),
		Orders:        st.Orders(),
		ReturnOrders:  st.ReturnOrders(),
		RecycleOrders: st.RecycleOrders(),
	}

	var (
		raw []byte
		err error
	)
	if *compact {
		raw, err = json.Marshal(data)
	} else {
		raw, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		log.Fatalf("Failed to encode fixtures: %v", err)
	}
	raw = append(raw, '\n')

	if *out == "" {
		if _, err := os.Stdout.Write(raw); err != nil {
			log.Fatalf("Failed to write fixtures: %v", err)
		}
		return
	}

	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote fixtures to %s (%d orders, %d products)", *out, len(data.Orders), len(data.Products))
}
