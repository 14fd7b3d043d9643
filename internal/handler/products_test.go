package handler

import (
	"math"
	"testing"

	"github.com/iliyamo/restroom-web/internal/model"
)

func TestParseCents(t *testing.T) {
	cases := map[string]int64{"3.50": 350, "3.5": 350, "12": 1200, "0.05": 5, ".99": 99, "1.239": 123}
	for in, want := range cases {
		got, err := parseCents(in)
		if err != nil || got != want {
			t.Errorf("parseCents(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"abc", "-1", "1.x", "99999999999999999", "18446744073709551615.00"} {
		if _, err := parseCents(in); err == nil {
			t.Errorf("parseCents(%q) should fail", in)
		}
	}
}

func TestOrderItemsAndTotal(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Soap", UnitPrice: "3.50", StockQty: 10},
		{ID: 2, Name: "Paper", UnitPrice: "1.25", StockQty: 2},
	}

	items, err := orderItems(map[string][]string{"qty_1": {"2"}, "qty_2": {"2"}, "restroom": {"7"}, "qty_x": {"5"}})
	if err != nil {
		t.Fatalf("orderItems: %v", err)
	}
	if len(items) != 2 || items["1"] != 2 || items["2"] != 2 {
		t.Fatalf("unexpected items %v", items)
	}
	total, err := orderTotal(products, items)
	if err != nil || total != "9.50" {
		t.Fatalf("total = %q, %v", total, err)
	}

	if _, err := orderItems(map[string][]string{"qty_1": {"0"}}); err != errNoItems {
		t.Fatalf("expected errNoItems, got %v", err)
	}
	if _, err := orderItems(map[string][]string{"qty_1": {"-2"}}); err == nil {
		t.Fatalf("negative quantity should fail")
	}
	if _, err := orderTotal(products, map[string]int{"2": 3}); err == nil {
		t.Fatalf("over-stock order should fail")
	}
	if _, err := orderTotal(products, map[string]int{"9": 1}); err == nil {
		t.Fatalf("unknown product should fail")
	}
}

func TestParseRating(t *testing.T) {
	for _, ok := range []string{"1", "5", " 3 "} {
		if _, err := parseRating(ok); err != nil {
			t.Errorf("parseRating(%q): %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "6", "3abc", ""} {
		if _, err := parseRating(bad); err == nil {
			t.Errorf("parseRating(%q) should fail", bad)
		}
	}
}

func TestOrderTotalOverflow(t *testing.T) {
	products := []model.Product{
		{ID: 1, Name: "Gold", UnitPrice: "1099511627775.99", StockQty: math.MaxInt32},
		{ID: 2, Name: "Soap", UnitPrice: "3.50", StockQty: math.MaxInt32},
	}
	if _, err := orderTotal(products, map[string]int{"1": math.MaxInt32}); err != errTotalTooLarge {
		t.Fatalf("expected errTotalTooLarge, got %v", err)
	}
	total, err := orderTotal(products, map[string]int{"2": 1000000})
	if err != nil || total != "3500000.00" {
		t.Fatalf("total = %q, %v", total, err)
	}
}
