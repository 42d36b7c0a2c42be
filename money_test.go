package valutatrade

import "testing"

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{M(30125, "USD"), "$30,125.00"},
		{M(0.5, "BTC"), "0.5 BTC"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{60000, "60000"},
		{1.0 / 60000, "0.000016666667"},
		{1.23456789012, "1.23456789"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.rate); got != tt.want {
			t.Errorf("FormatRate(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
