// Package history turns an account's raw transaction references into an
// ordered list of classified ledger entries.
package history

import (
	"github.com/samber/lo"

	"github.com/mtlprog/suiledger/internal/domain"
)

// Dedupe returns the distinct digests of refs in order of first occurrence.
func Dedupe(refs []domain.SequenceRef) []string {
	return lo.Uniq(lo.Map(refs, func(r domain.SequenceRef, _ int) string {
		return r.Digest
	}))
}
