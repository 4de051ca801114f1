package coin

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/domain"
)

func TestParseCoinType(t *testing.T) {
	tests := []struct {
		input   string
		want    domain.CoinTypeTag
		wantErr bool
	}{
		{"0x2::sui::SUI", domain.CoinTypeTag{Package: "0x2", Module: "sui", Name: "SUI"}, false},
		{"pkg::sui::SUI", domain.CoinTypeTag{Package: "pkg", Module: "sui", Name: "SUI"}, false},
		{" 0xabc::usdc::USDC ", domain.CoinTypeTag{Package: "0xabc", Module: "usdc", Name: "USDC"}, false},
		{"0x2::sui", domain.CoinTypeTag{}, true},
		{"a::b::c::d", domain.CoinTypeTag{}, true},
		{"0x2::coin::Coin<0x2::sui::SUI>", domain.CoinTypeTag{}, true},
		{"", domain.CoinTypeTag{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCoinType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCoinTypeFormat) {
					t.Errorf("error = %v, want ErrInvalidCoinTypeFormat", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseCoinType(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsCoin(t *testing.T) {
	tests := []struct {
		objectType string
		want       bool
	}{
		{"0x2::coin::Coin<0x2::sui::SUI>", true},
		{"0x2::coin::Coin<0xabc::usdc::USDC>", true},
		{"0x0000000000000000000000000000000000000002::coin::Coin<0x2::sui::SUI>", true},
		{"0x2::coin::Coin", true},
		{"0x2::devnet_nft::DevNetNFT", false},
		{"0x3::coin::Coin<0x2::sui::SUI>", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.objectType, func(t *testing.T) {
			if got := IsCoin(tt.objectType); got != tt.want {
				t.Errorf("IsCoin(%q) = %v, want %v", tt.objectType, got, tt.want)
			}
		})
	}
}

func TestCoinTypeArg(t *testing.T) {
	arg, ok := CoinTypeArg("0x2::coin::Coin<0xabc::usdc::USDC>")
	if !ok || arg != "0xabc::usdc::USDC" {
		t.Errorf("CoinTypeArg = %q, %v; want 0xabc::usdc::USDC, true", arg, ok)
	}
	if _, ok := CoinTypeArg("0x2::coin::Coin"); ok {
		t.Error("bare Coin type should have no type argument")
	}
}

func TestExtractBalance(t *testing.T) {
	tests := []struct {
		name    string
		obj     domain.ObjectSnapshot
		want    string
		wantErr error
	}{
		{
			name: "native coin",
			obj:  domain.ObjectSnapshot{ObjectID: "0x1", Type: "0x2::coin::Coin<0x2::sui::SUI>", Fields: domain.ObjectFields{Balance: "1000"}},
			want: "1000",
		},
		{
			name: "quoted value past uint64",
			obj:  domain.ObjectSnapshot{ObjectID: "0x1", Type: "0x2::coin::Coin<0xabc::usdc::USDC>", Fields: domain.ObjectFields{Balance: `"18446744073709551616"`}},
			want: "18446744073709551616",
		},
		{
			name:    "nft",
			obj:     domain.ObjectSnapshot{ObjectID: "0x1", Type: "0x2::devnet_nft::DevNetNFT", Fields: domain.ObjectFields{Balance: "1"}},
			wantErr: ErrNotACoinObject,
		},
		{
			name:    "garbage balance",
			obj:     domain.ObjectSnapshot{ObjectID: "0x1", Type: "0x2::coin::Coin<0x2::sui::SUI>", Fields: domain.ObjectFields{Balance: "abc"}},
			wantErr: ErrInvalidBalance,
		},
		{
			name:    "fractional balance",
			obj:     domain.ObjectSnapshot{ObjectID: "0x1", Type: "0x2::coin::Coin<0x2::sui::SUI>", Fields: domain.ObjectFields{Balance: "1.5"}},
			wantErr: ErrInvalidBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBalance(tt.obj)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("balance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSymbolForObject(t *testing.T) {
	tests := []struct {
		objectType string
		want       string
		wantErr    bool
	}{
		{"0x2::coin::Coin<0x2::sui::SUI>", "SUI", false},
		{"0x2::coin::Coin<0xabc::usdc::USDC>", "USDC", false},
		{"0x2::devnet_nft::DevNetNFT", "DevNetNFT", false},
		{"garbage", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.objectType, func(t *testing.T) {
			tag, err := SymbolForObject(tt.objectType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if !tt.wantErr && tag.Symbol() != tt.want {
				t.Errorf("symbol = %q, want %q", tag.Symbol(), tt.want)
			}
		})
	}
}

func TestParseUserInput(t *testing.T) {
	mist := decimal.New(1, 9)
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{"whole", "2", "2000000000", false},
		{"fraction", "1.5", "1500000000", false},
		{"half rounds away from zero", "0.0000000005", "1", false},
		{"below half rounds down", "0.0000000004", "0", false},
		{"large", "12345678901234567890.123456789", "12345678901234567890123456789", false},
		{"empty", "", "", true},
		{"text", "abc", "", true},
		{"negative", "-1", "", true},
		{"exponent within range", "1e3", "1000000000000", false},
		{"huge exponent", "1e20000000", "", true},
		{"huge negative exponent", "1e-20000000", "", true},
		{"too long", "1" + strings.Repeat("0", 80), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserInput(tt.text, mist)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseUserInput(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    string
		wantErr bool
	}{
		{"integer", "1500", "1500", false},
		{"u64 max", "18446744073709551615", "18446744073709551615", false},
		{"integer in exponent form", "15e2", "1500", false},
		{"fraction", "1.5", "", true},
		{"negative", "-1", "", true},
		{"huge exponent", "1e20000000", "", true},
		{"too long", strings.Repeat("9", 81), "", true},
		{"empty", " ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBalance(tt.text)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("error = %v, want ErrInvalidAmount", err)
				}
				return
			}
			if got.String() != tt.want {
				t.Errorf("ParseBalance(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
