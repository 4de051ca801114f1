package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// KindName discriminates ledger entry kinds.
type KindName string

const (
	KindCall           KindName = "Call"
	KindTransferObject KindName = "TransferObject"
	KindTransferSui    KindName = "TransferSui"
	KindPublish        KindName = "Publish"
)

// Kind is the closed set of transaction kinds a ledger entry can carry.
// Each variant holds only the fields meaningful for it.
type Kind interface {
	Name() KindName
	counterparty() string
	amount() *decimal.Decimal
	objectID() string
}

// CallKind is a Move call. CreatedObjectID is the first object created by the
// transaction, used as a best-effort proxy for "this call minted an asset".
// It is wrong when the call creates several objects and empty when it creates none.
type CallKind struct {
	Package         string `json:"package"`
	Module          string `json:"module"`
	Function        string `json:"function"`
	CreatedObjectID string `json:"createdObjectId,omitempty"`
}

func (CallKind) Name() KindName { return KindCall }
func (CallKind) counterparty() string { return "" }
func (CallKind) amount() *decimal.Decimal { return nil }
func (k CallKind) objectID() string { return k.CreatedObjectID }

// DisplayFunction renders the function name with underscores as spaces.
func (k CallKind) DisplayFunction() string {
	return strings.ReplaceAll(k.Function, "_", " ")
}

// TransferObjectKind moves an object to a recipient.
type TransferObjectKind struct {
	Recipient string `json:"recipient"`
	ObjectID  string `json:"objectId"`
}

func (TransferObjectKind) Name() KindName { return KindTransferObject }
func (k TransferObjectKind) counterparty() string { return k.Recipient }
func (TransferObjectKind) amount() *decimal.Decimal { return nil }
func (k TransferObjectKind) objectID() string { return k.ObjectID }

// TransferSuiKind moves native coin to a recipient.
type TransferSuiKind struct {
	Recipient string           `json:"recipient"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

func (TransferSuiKind) Name() KindName { return KindTransferSui }
func (k TransferSuiKind) counterparty() string { return k.Recipient }
func (k TransferSuiKind) amount() *decimal.Decimal { return k.Amount }
func (TransferSuiKind) objectID() string { return "" }

// PublishKind publishes a Move package.
type PublishKind struct{}

func (PublishKind) Name() KindName { return KindPublish }
func (PublishKind) counterparty() string { return "" }
func (PublishKind) amount() *decimal.Decimal { return nil }
func (PublishKind) objectID() string { return "" }

// Enrichment holds object metadata merged into an entry after cross-referencing.
type Enrichment struct {
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	URL         string           `json:"url,omitempty"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	CoinType    *CoinTypeTag     `json:"coinType,omitempty"`
	CoinSymbol  string           `json:"coinSymbol,omitempty"`
}

// LedgerEntry is the reconciled record of one transaction affecting an account.
// Entries are keyed by Digest and are never mutated once committed to a LedgerState.
type LedgerEntry struct {
	SequenceNumber uint64          `json:"sequenceNumber"`
	Digest         string          `json:"digest"`
	Status         ExecutionStatus `json:"status"`
	Error          string          `json:"error,omitempty"`
	Kind           Kind            `json:"kind"`
	Sender         string          `json:"sender"`
	IsSenderSelf   bool            `json:"isSenderSelf"`
	GasUsed        decimal.Decimal `json:"gasUsed"`
	TimestampMs    *int64          `json:"timestampMs,omitempty"`
	Enrichment     Enrichment      `json:"enrichment"`
}

// Counterparty returns the recipient for transfer kinds, empty otherwise.
func (e LedgerEntry) Counterparty() string {
	if e.Kind == nil {
		return ""
	}
	return e.Kind.counterparty()
}

// Amount returns the transferred amount for value-transfer kinds.
func (e LedgerEntry) Amount() *decimal.Decimal {
	if e.Kind == nil {
		return nil
	}
	return e.Kind.amount()
}

// ObjectID returns the object referenced by the entry, if any.
func (e LedgerEntry) ObjectID() string {
	if e.Kind == nil {
		return ""
	}
	return e.Kind.objectID()
}

// DisplayAmount picks the amount to show: the transferred amount, else the
// referenced object's balance, else the gas used.
func (e LedgerEntry) DisplayAmount() decimal.Decimal {
	if a := e.Amount(); a != nil {
		return *a
	}
	if e.Enrichment.Balance != nil {
		return *e.Enrichment.Balance
	}
	return e.GasUsed
}

// DisplayCoinType returns the coin the DisplayAmount is denominated in.
func (e LedgerEntry) DisplayCoinType() CoinTypeTag {
	if e.Amount() == nil && e.Enrichment.Balance != nil && e.Enrichment.CoinType != nil {
		return *e.Enrichment.CoinType
	}
	return NativeCoin()
}
