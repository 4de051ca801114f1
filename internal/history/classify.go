package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mtlprog/suiledger/internal/domain"
)

var (
	// ErrMultiOperationUnsupported marks an effect whose payload holds more than
	// one operation. Such transactions are dropped from the ledger.
	ErrMultiOperationUnsupported = errors.New("multi-operation transaction unsupported")
	// ErrUnclassifiable marks an effect with no recognised operation.
	ErrUnclassifiable = errors.New("unclassifiable transaction")
)

// Classify builds the ledger entry for one effect as seen by address.
func Classify(address string, seq uint64, effect domain.TransactionEffect) (domain.LedgerEntry, error) {
	if n := len(effect.Operations); n > 1 {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s has %d operations", ErrMultiOperationUnsupported, effect.Digest, n)
	}
	if len(effect.Operations) == 0 {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s has no operations", ErrUnclassifiable, effect.Digest)
	}

	kind, err := classifyOperation(effect.Operations[0], effect.Created)
	if err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("%w: %s", err, effect.Digest)
	}

	return domain.LedgerEntry{
		SequenceNumber: seq,
		Digest:         effect.Digest,
		Status:         effect.Status,
		Error:          effect.Error,
		Kind:           kind,
		Sender:         effect.Sender,
		IsSenderSelf:   address != "" && strings.EqualFold(effect.Sender, address),
		GasUsed:        effect.GasUsed,
		TimestampMs:    effect.TimestampMs,
	}, nil
}

func classifyOperation(op domain.Operation, created []domain.ObjectRef) (domain.Kind, error) {
	switch {
	case op.TransferSui != nil:
		return domain.TransferSuiKind{
			Recipient: op.TransferSui.Recipient,
			Amount:    op.TransferSui.Amount,
		}, nil
	case op.TransferObject != nil:
		return domain.TransferObjectKind{
			Recipient: op.TransferObject.Recipient,
			ObjectID:  op.TransferObject.Object.ObjectID,
		}, nil
	case op.Call != nil:
		kind := domain.CallKind{
			Package:  op.Call.Package,
			Module:   op.Call.Module,
			Function: op.Call.Function,
		}
		// first created object stands in for "this call minted an asset";
		// wrong for calls creating several objects
		if len(created) > 0 {
			kind.CreatedObjectID = created[0].ObjectID
		}
		return kind, nil
	case op.Publish != nil:
		return domain.PublishKind{}, nil
	default:
		return nil, ErrUnclassifiable
	}
}
