package domain

import "github.com/shopspring/decimal"

// SequenceRef is one (sequence number, digest) pair listed for an account.
type SequenceRef struct {
	SequenceNumber uint64 `json:"sequenceNumber"`
	Digest         string `json:"digest"`
}

// ExecutionStatus is the outcome of executing a transaction.
type ExecutionStatus string

const (
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionFailure ExecutionStatus = "failure"
)

// ObjectRef points at a specific version of an on-chain object.
type ObjectRef struct {
	ObjectID string `json:"objectId"`
	Version  uint64 `json:"version"`
	Digest   string `json:"digest"`
}

// TransferSuiOp moves native coin to a recipient. Amount is nil when the whole coin is sent.
type TransferSuiOp struct {
	Recipient string
	Amount    *decimal.Decimal
}

// TransferObjectOp moves an object to a recipient.
type TransferObjectOp struct {
	Recipient string
	Object    ObjectRef
}

// MoveCallOp invokes a Move function.
type MoveCallOp struct {
	Package  string
	Module   string
	Function string
}

// PublishOp publishes a Move package.
type PublishOp struct{}

// Operation is one logical operation of a transaction payload.
// Exactly one field is set for a recognised operation; none for an unknown one.
type Operation struct {
	TransferSui    *TransferSuiOp
	TransferObject *TransferObjectOp
	Call           *MoveCallOp
	Publish        *PublishOp
}

// TransactionEffect is the executed form of a transaction as reported by the ledger node.
type TransactionEffect struct {
	Digest      string
	Sender      string
	Operations  []Operation
	Status      ExecutionStatus
	Error       string
	GasUsed     decimal.Decimal
	TimestampMs *int64
	Created     []ObjectRef
}

// ObjectFields are the display-relevant fields of an object's contents.
// Balance is kept as its raw JSON text so integer values never pass through a float.
type ObjectFields struct {
	Name        string
	Description string
	URL         string
	Balance     string
}

// ObjectSnapshot is the current state of an on-chain object.
type ObjectSnapshot struct {
	ObjectID string
	Type     string
	Fields   ObjectFields
}
