package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "₹0.00"},
		{"1250.5", "₹1250.50"},
		{"-12.5", "₹-12.50"},
	}
	for _, c := range cases {
		d, _ := decimal.NewFromString(c.in)
		if got := FormatINR(d); got != c.want {
			t.Fatalf("FormatINR(%s)=%q want=%q", c.in, got, c.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	d, _ := decimal.NewFromString("0.015")
	if got := FormatPercent(d); got != "1.50%" {
		t.Fatalf("FormatPercent=%q want=1.50%%", got)
	}
}
