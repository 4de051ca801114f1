package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestLedgerEntryKindAccessors(t *testing.T) {
	tests := []struct {
		name         string
		kind         Kind
		counterparty string
		amount       *decimal.Decimal
		objectID     string
	}{
		{"transfer sui", TransferSuiKind{Recipient: "0xbob", Amount: decPtr("10")}, "0xbob", decPtr("10"), ""},
		{"transfer object", TransferObjectKind{Recipient: "0xbob", ObjectID: "0xobj"}, "0xbob", nil, "0xobj"},
		{"call with created object", CallKind{Function: "mint", CreatedObjectID: "0xnft"}, "", nil, "0xnft"},
		{"call without created object", CallKind{Function: "noop"}, "", nil, ""},
		{"publish", PublishKind{}, "", nil, ""},
		{"nil kind", nil, "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := LedgerEntry{Kind: tt.kind}
			if got := e.Counterparty(); got != tt.counterparty {
				t.Errorf("Counterparty() = %q, want %q", got, tt.counterparty)
			}
			if got := e.ObjectID(); got != tt.objectID {
				t.Errorf("ObjectID() = %q, want %q", got, tt.objectID)
			}
			got := e.Amount()
			if (got == nil) != (tt.amount == nil) {
				t.Fatalf("Amount() = %v, want %v", got, tt.amount)
			}
			if got != nil && !got.Equal(*tt.amount) {
				t.Errorf("Amount() = %s, want %s", got, tt.amount)
			}
		})
	}
}

func TestDisplayAmountFallbackChain(t *testing.T) {
	gas := decimal.NewFromInt(42)
	usdc := CoinTypeTag{Package: "0xabc", Module: "usdc", Name: "USDC"}

	transfer := LedgerEntry{Kind: TransferSuiKind{Recipient: "0xb", Amount: decPtr("7")}, GasUsed: gas}
	if got := transfer.DisplayAmount(); !got.Equal(decimal.NewFromInt(7)) {
		t.Errorf("transfer DisplayAmount = %s, want 7", got)
	}

	withBalance := LedgerEntry{
		Kind:       TransferObjectKind{Recipient: "0xb", ObjectID: "0xcoin"},
		GasUsed:    gas,
		Enrichment: Enrichment{Balance: decPtr("300"), CoinType: &usdc},
	}
	if got := withBalance.DisplayAmount(); !got.Equal(decimal.NewFromInt(300)) {
		t.Errorf("balance DisplayAmount = %s, want 300", got)
	}
	if got := withBalance.DisplayCoinType(); got != usdc {
		t.Errorf("balance DisplayCoinType = %v, want %v", got, usdc)
	}

	bareCall := LedgerEntry{Kind: CallKind{Function: "noop"}, GasUsed: gas}
	if bareCall.ObjectID() != "" || bareCall.Amount() != nil {
		t.Fatal("bare call should carry neither object id nor amount")
	}
	if got := bareCall.DisplayAmount(); !got.Equal(gas) {
		t.Errorf("bare call DisplayAmount = %s, want gas %s", got, gas)
	}
	if got := bareCall.DisplayCoinType(); got != NativeCoin() {
		t.Errorf("bare call DisplayCoinType = %v, want native", got)
	}
}

func TestCallKindDisplayFunction(t *testing.T) {
	k := CallKind{Function: "mint_example_nft"}
	if got := k.DisplayFunction(); got != "mint example nft" {
		t.Errorf("DisplayFunction() = %q, want %q", got, "mint example nft")
	}
}
