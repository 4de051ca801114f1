package domain

import (
	"slices"

	"github.com/samber/lo"
)

// Phase is the externally observable phase of an account's ledger.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseFailed  Phase = "failed"
)

// ErrorInfo describes a fatal cycle error.
type ErrorInfo struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// LedgerState is a complete snapshot of an account's reconciled ledger.
// Loading, a populated Error and populated Entries are mutually exclusive.
type LedgerState struct {
	Phase           Phase         `json:"phase"`
	Loading         bool          `json:"loading"`
	Error           *ErrorInfo    `json:"error"`
	Entries         []LedgerEntry `json:"entries"`
	RecentAddresses []string      `json:"recentAddresses"`
}

// IdleState is the state of an account no cycle has run for.
func IdleState() LedgerState {
	return LedgerState{Phase: PhaseIdle, Entries: []LedgerEntry{}, RecentAddresses: []string{}}
}

// LoadingState clears entries and recent addresses while a cycle is in flight.
func LoadingState() LedgerState {
	return LedgerState{Phase: PhaseLoading, Loading: true, Entries: []LedgerEntry{}, RecentAddresses: []string{}}
}

// LoadedState commits entries and derives recent addresses from them.
// The entries slice is copied so later changes by the caller are not observed.
func LoadedState(entries []LedgerEntry) LedgerState {
	committed := slices.Clone(entries)
	if committed == nil {
		committed = []LedgerEntry{}
	}
	return LedgerState{
		Phase:           PhaseLoaded,
		Entries:         committed,
		RecentAddresses: RecentAddresses(committed),
	}
}

// FailedState carries only the error.
func FailedState(info ErrorInfo) LedgerState {
	return LedgerState{Phase: PhaseFailed, Error: &info, Entries: []LedgerEntry{}, RecentAddresses: []string{}}
}

// RecentAddresses returns the distinct non-empty counterparty and sender
// addresses across entries, in order of first appearance.
func RecentAddresses(entries []LedgerEntry) []string {
	addrs := make([]string, 0, len(entries)*2)
	for _, e := range entries {
		addrs = append(addrs, e.Counterparty(), e.Sender)
	}
	return lo.Uniq(lo.Compact(addrs))
}
