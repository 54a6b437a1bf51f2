package surface

import (
	"testing"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"Stat", 4},
		{"攻擊力", 6},
		{"攻擊力%", 7},
		{"ＰｖＥ", 6},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.s); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.s, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	p := message.NewPrinter(language.English)
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{2100, "2,100"},
		{1234.5, "1,234.5"},
		{2.25, "2.25"},
		{-200, "-200"},
	}
	for _, tt := range tests {
		if got := formatNumber(p, tt.v); got != tt.want {
			t.Errorf("formatNumber(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
	if got := formatSigned(p, 30); got != "+30" {
		t.Errorf("formatSigned(30) = %q", got)
	}
}

func TestBar(t *testing.T) {
	if got := bar(50, 10); got != "[#####.....]" {
		t.Errorf("bar(50) = %q", got)
	}
	if got := bar(150, 4); got != "[####]" {
		t.Errorf("bar(150) = %q", got)
	}
}
