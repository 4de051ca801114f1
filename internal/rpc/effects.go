package rpc

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/domain"
)

const methodGetTransaction = "sui_getTransaction"

// FetchEffectsBatch fetches the executed effects of each digest, in input order.
func (c *Client) FetchEffectsBatch(ctx context.Context, digests []string) ([]domain.TransactionEffect, error) {
	params := make([][]any, len(digests))
	for i, d := range digests {
		params[i] = []any{d}
	}

	raws, err := c.batch(ctx, methodGetTransaction, params)
	if err != nil {
		return nil, fmt.Errorf("fetching %d effects: %w", len(digests), err)
	}

	effects := make([]domain.TransactionEffect, 0, len(raws))
	for i, raw := range raws {
		var tx transactionResponseJSON
		if err := json.Unmarshal(raw, &tx); err != nil {
			return nil, fmt.Errorf("parsing effects for %s: %w", digests[i], err)
		}
		effects = append(effects, toEffect(tx))
	}
	return effects, nil
}

func toEffect(tx transactionResponseJSON) domain.TransactionEffect {
	status := domain.ExecutionFailure
	if tx.Effects.Status.Status == string(domain.ExecutionSuccess) {
		status = domain.ExecutionSuccess
	}

	ops := make([]domain.Operation, 0, len(tx.Certificate.Data.Transactions))
	for _, st := range tx.Certificate.Data.Transactions {
		ops = append(ops, toOperation(st))
	}

	created := make([]domain.ObjectRef, 0, len(tx.Effects.Created))
	for _, c := range tx.Effects.Created {
		created = append(created, toObjectRef(c.Reference))
	}

	gas := tx.Effects.GasUsed
	return domain.TransactionEffect{
		Digest:     tx.Certificate.TransactionDigest,
		Sender:     tx.Certificate.Data.Sender,
		Operations: ops,
		Status:     status,
		Error:      tx.Effects.Status.Error,
		GasUsed: domain.GasUsed(
			domain.SafeParse(gas.ComputationCost.String()),
			domain.SafeParse(gas.StorageCost.String()),
			domain.SafeParse(gas.StorageRebate.String()),
		),
		TimestampMs: tx.TimestampMs,
		Created:     created,
	}
}

func toOperation(st singleTransactionJSON) domain.Operation {
	switch {
	case st.TransferSui != nil:
		op := &domain.TransferSuiOp{Recipient: st.TransferSui.Recipient}
		if st.TransferSui.Amount != nil {
			if amount, err := decimal.NewFromString(st.TransferSui.Amount.String()); err == nil {
				op.Amount = &amount
			}
		}
		return domain.Operation{TransferSui: op}
	case st.TransferObject != nil:
		return domain.Operation{TransferObject: &domain.TransferObjectOp{
			Recipient: st.TransferObject.Recipient,
			Object:    toObjectRef(st.TransferObject.ObjectRef),
		}}
	case st.Call != nil:
		return domain.Operation{Call: &domain.MoveCallOp{
			Package:  string(st.Call.Package),
			Module:   st.Call.Module,
			Function: st.Call.Function,
		}}
	case len(st.Publish) > 0:
		return domain.Operation{Publish: &domain.PublishOp{}}
	default:
		return domain.Operation{}
	}
}

func toObjectRef(r objectRefJSON) domain.ObjectRef {
	return domain.ObjectRef{ObjectID: r.ObjectID, Version: r.Version, Digest: r.Digest}
}
