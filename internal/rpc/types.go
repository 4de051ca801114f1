package rpc

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// sequenceTuple decodes the [seq, digest] pairs returned by the address listing methods.
type sequenceTuple struct {
	Seq    uint64
	Digest string
}

func (t *sequenceTuple) UnmarshalJSON(data []byte) error {
	var raw []jsoniter.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding sequence tuple: %w", err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("sequence tuple has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Seq); err != nil {
		return fmt.Errorf("decoding sequence number: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.Digest); err != nil {
		return fmt.Errorf("decoding digest: %w", err)
	}
	return nil
}

type objectRefJSON struct {
	ObjectID string `json:"objectId"`
	Version  uint64 `json:"version"`
	Digest   string `json:"digest"`
}

// packageRef accepts either a bare package id string or an object reference.
type packageRef string

func (p *packageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = packageRef(s)
		return nil
	}
	var ref objectRefJSON
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("decoding package reference: %w", err)
	}
	*p = packageRef(ref.ObjectID)
	return nil
}

type transferSuiJSON struct {
	Recipient string           `json:"recipient"`
	Amount    *jsoniter.Number `json:"amount"`
}

type transferObjectJSON struct {
	Recipient string        `json:"recipient"`
	ObjectRef objectRefJSON `json:"objectRef"`
}

type moveCallJSON struct {
	Package  packageRef `json:"package"`
	Module   string     `json:"module"`
	Function string     `json:"function"`
}

// singleTransactionJSON is one entry of a transaction's operation list.
// The wire form is an object with exactly one key naming the kind.
type singleTransactionJSON struct {
	TransferSui    *transferSuiJSON    `json:"TransferSui"`
	TransferObject *transferObjectJSON `json:"TransferObject"`
	Call           *moveCallJSON       `json:"Call"`
	Publish        jsoniter.RawMessage `json:"Publish"`
}

type transactionDataJSON struct {
	Transactions []singleTransactionJSON `json:"transactions"`
	Sender       string                  `json:"sender"`
	GasBudget    jsoniter.Number         `json:"gasBudget"`
}

type certificateJSON struct {
	TransactionDigest string              `json:"transactionDigest"`
	Data              transactionDataJSON `json:"data"`
}

type gasCostJSON struct {
	ComputationCost jsoniter.Number `json:"computationCost"`
	StorageCost     jsoniter.Number `json:"storageCost"`
	StorageRebate   jsoniter.Number `json:"storageRebate"`
}

type statusJSON struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type ownedRefJSON struct {
	Reference objectRefJSON `json:"reference"`
}

type effectsJSON struct {
	Status  statusJSON     `json:"status"`
	GasUsed gasCostJSON    `json:"gasUsed"`
	Created []ownedRefJSON `json:"created"`
}

type transactionResponseJSON struct {
	Certificate certificateJSON `json:"certificate"`
	Effects     effectsJSON     `json:"effects"`
	TimestampMs *int64          `json:"timestamp_ms"`
}

const objectStatusExists = "Exists"

type objectDataJSON struct {
	DataType string                         `json:"dataType"`
	Type     string                         `json:"type"`
	Fields   map[string]jsoniter.RawMessage `json:"fields"`
}

type objectDetailsJSON struct {
	Data      objectDataJSON `json:"data"`
	Reference objectRefJSON  `json:"reference"`
}

type objectResponseJSON struct {
	Status  string              `json:"status"`
	Details jsoniter.RawMessage `json:"details"`
}
