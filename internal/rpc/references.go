package rpc

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/suiledger/internal/domain"
)

const (
	methodTransactionsFrom = "sui_getTransactionsFromAddress"
	methodTransactionsTo   = "sui_getTransactionsToAddress"
)

// ListReferences returns every (sequence number, digest) pair where address
// is sender or recipient: sent transactions first, then received. Duplicates
// are preserved; the caller dedupes.
func (c *Client) ListReferences(ctx context.Context, address string) ([]domain.SequenceRef, error) {
	var from, to []sequenceTuple

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.call(gctx, methodTransactionsFrom, []any{address}, &from)
	})
	g.Go(func() error {
		return c.call(gctx, methodTransactionsTo, []any{address}, &to)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("listing references for %s: %w", address, err)
	}

	refs := make([]domain.SequenceRef, 0, len(from)+len(to))
	for _, t := range from {
		refs = append(refs, domain.SequenceRef{SequenceNumber: t.Seq, Digest: t.Digest})
	}
	for _, t := range to {
		refs = append(refs, domain.SequenceRef{SequenceNumber: t.Seq, Digest: t.Digest})
	}
	return refs, nil
}
