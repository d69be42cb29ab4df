package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/reluxe-pos/app/internal/enum"
	"github.com/reluxe-pos/app/internal/model"
)

// Seed loads the demo fixture set: a small resale catalog (including one
// negotiable-price item), a mix of verified and unverified members, reference
// lists, and a few orders in various lifecycle stages.
func Seed(s *Store) {
	watchImage := "https://images.example.com/watch-gold.jpg"
	bagImage := "https://images.example.com/bag-visetos.jpg"

	products := []model.Product{
		{
			ID:            "mcm-1",
			Brand:         "MCM",
			Category:      "Bags",
			Title:         "MCM Stark Visetos medium studded backpack MMKAAVE09I8001",
			Price:         decimal.NewFromInt(3542),
			PublicPrice:   decimal.NewFromInt(9400),
			Condition:     "9.5/10",
			ImageURL:      bagImage,
			InventoryTime: "2025-09-01",
			ListingTime:   "2025-09-01",
			UniqueCode:    "202509010001",
			Specs: []model.Spec{
				{Label: "Series", Value: "Stark"},
				{Label: "Size", Value: "16 x 36 x 41 cm"},
				{Label: "Color", Value: "Beige"},
				{Label: "Material", Value: "Visetos canvas, Nappa leather"},
			},
			DetailImages: []string{bagImage, bagImage},
		},
		{
			ID:            "rlx-1",
			Brand:         "Rolex",
			Category:      "Watches",
			Title:         "Rolex Cosmograph Daytona 116508-0013 automatic 18k gold 40mm",
			Price:         decimal.NewFromInt(302200),
			PublicPrice:   decimal.NewFromInt(325000),
			Condition:     "9/10",
			ImageURL:      watchImage,
			InventoryTime: "2023-10-01",
			ListingTime:   "2023-10-05",
			UniqueCode:    "RLX-116508-0013",
			DetailImages:  []string{watchImage, watchImage},
		},
		{
			// Price zero marks the item negotiable, priced at sale time.
			ID:            "pp-1",
			Brand:         "Patek Philippe",
			Category:      "Watches",
			Title:         "Patek Philippe Nautilus 5711/1A blue dial automatic steel",
			Price:         decimal.Zero,
			PublicPrice:   decimal.NewFromInt(260000),
			Condition:     "9.9/10",
			ImageURL:      watchImage,
			InventoryTime: "2023-12-01",
			ListingTime:   "2023-12-05",
			UniqueCode:    "PP-5711-1A",
		},
		{
			ID:            "rlx-2",
			Brand:         "Rolex",
			Category:      "Watches",
			Title:         "Rolex Submariner 116610LN automatic steel 40mm",
			Price:         decimal.NewFromInt(95000),
			PublicPrice:   decimal.NewFromInt(85000),
			Condition:     "9/10",
			ImageURL:      watchImage,
			InventoryTime: "2023-11-11",
			ListingTime:   "2023-11-15",
			UniqueCode:    "RLX-116610LN",
		},
	}

	members := []model.Member{
		{ID: "m-1", Name: "Wang Lei", Phone: "13812345678", Gender: enum.GenderMale, IsVerified: true},
		{ID: "m-2", Name: "Li Na", Phone: "13987654321", Gender: enum.GenderFemale, IsVerified: false},
		{ID: "m-3", Name: "Zhang Min", Phone: "13700001111", Gender: enum.GenderFemale, IsVerified: true, ShopName: "Minty Vintage"},
	}

	employees := []model.Employee{
		{ID: "e-1", Name: "Chen Jing", Phone: "13600002222"},
		{ID: "e-2", Name: "Liu Yang", Phone: "13600003333"},
	}

	merchants := []model.Merchant{
		{ID: "mc-1", Name: "Reluxe Flagship Store"},
		{ID: "mc-2", Name: "Reluxe Outlet"},
	}

	titles := []model.InvoiceTitle{
		{
			ID:        "inv-1",
			Type:      enum.InvoiceTitleCompany,
			Title:     "Minty Vintage Trading Co., Ltd.",
			TaxID:     "91310000MA1FL0001X",
			IsDefault: true,
		},
		{
			ID:    "inv-2",
			Type:  enum.InvoiceTitlePersonal,
			Title: "Wang Lei",
		},
	}

	now := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	orders := []model.Settlement{
		{
			ID:            "SET-1001",
			SalesOrderID:  "SO-1001",
			Type:          "sales",
			TotalAmount:   decimal.NewFromInt(305742),
			Items:         []model.Product{products[0], products[1]},
			CreateTime:    now.Add(-72 * time.Hour),
			Member:        members[0],
			PaidAmount:    decimal.NewFromInt(305742),
			EmployeeID:    "e-1",
			Status:        enum.OrderStatusPaid,
			PaymentMethod: enum.PaymentMethodOffline,
			AuditInfo: &model.AuditInfo{
				Submitter:   members[0].Name,
				SubmitTime:  now.Add(-73 * time.Hour),
				Approver:    "Manager",
				ApproveTime: now.Add(-72 * time.Hour),
				Status:      enum.AuditStatusPassed,
			},
		},
		{
			ID:           "SET-1002",
			SalesOrderID: "SO-1002",
			Type:         "sales",
			TotalAmount:  decimal.NewFromInt(95000),
			Items:        []model.Product{products[3]},
			CreateTime:   now.Add(-24 * time.Hour),
			Member:       members[2],
			PaidAmount:   decimal.Zero,
			EmployeeID:   "e-2",
			Status:       enum.OrderStatusPendingPayment,
			AuditInfo: &model.AuditInfo{
				Submitter:   members[2].Name,
				SubmitTime:  now.Add(-25 * time.Hour),
				Approver:    "Manager",
				ApproveTime: now.Add(-24 * time.Hour),
				Status:      enum.AuditStatusPassed,
			},
		},
	}

	returnOrders := []model.ReturnOrder{
		{
			ID:                    "RET-2001",
			OriginalOrderID:       "SO-0900",
			Amount:                decimal.NewFromInt(18000),
			Status:                enum.ReturnStatusPendingAudit,
			CreateTime:            now.Add(-12 * time.Hour),
			Items:                 []model.Product{products[3]},
			Member:                members[1],
			OriginalPaymentMethod: enum.PaymentMethodOnline,
			OriginalPaidAmount:    decimal.NewFromInt(18000),
			EmployeeID:            "e-1",
		},
	}

	recycleOrders := []model.RecycleOrder{
		{
			ID:                    "REC-3001",
			Member:                members[2],
			Items:                 []model.Product{products[2]},
			Status:                enum.RecycleStatusPassed,
			TotalExpectedAmount:   decimal.NewFromInt(250000),
			TotalSettlementAmount: decimal.NewFromInt(243000),
			CreateTime:            now.Add(-48 * time.Hour),
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = products
	s.members = members
	s.employees = employees
	s.merchants = merchants
	s.invoiceTitles = titles
	s.orders = orders
	s.returnOrders = returnOrders
	s.recycleOrders = recycleOrders
}
