package domain

import "testing"

func TestCoinTypeTagCanonical(t *testing.T) {
	tag := CoinTypeTag{Package: "0x2", Module: "sui", Name: "SUI"}
	if got := tag.Canonical(); got != "0x2::sui::SUI" {
		t.Errorf("Canonical() = %q, want 0x2::sui::SUI", got)
	}
	if got := tag.Symbol(); got != "SUI" {
		t.Errorf("Symbol() = %q, want SUI", got)
	}
}

func TestCoinTypeTagIsNative(t *testing.T) {
	tests := []struct {
		name string
		tag  CoinTypeTag
		want bool
	}{
		{"native", NativeCoin(), true},
		{"native module under other package", CoinTypeTag{Package: "pkg", Module: "sui", Name: "SUI"}, true},
		{"other coin", CoinTypeTag{Package: "0xabc", Module: "usdc", Name: "USDC"}, false},
		{"same name other module", CoinTypeTag{Package: "0x2", Module: "fake", Name: "SUI"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tag.IsNative(); got != tt.want {
				t.Errorf("IsNative() = %v, want %v", got, tt.want)
			}
		})
	}
}
