package domain

import (
	"slices"
	"testing"
)

func TestStatesAreMutuallyExclusive(t *testing.T) {
	entries := []LedgerEntry{{Digest: "d1", Sender: "0xa", Kind: PublishKind{}}}
	states := map[string]LedgerState{
		"idle":    IdleState(),
		"loading": LoadingState(),
		"loaded":  LoadedState(entries),
		"failed":  FailedState(ErrorInfo{Code: 1000, Name: "NetworkFailure", Message: "boom"}),
	}

	for name, s := range states {
		t.Run(name, func(t *testing.T) {
			populated := 0
			if s.Loading {
				populated++
			}
			if s.Error != nil {
				populated++
			}
			if len(s.Entries) > 0 {
				populated++
			}
			if populated > 1 {
				t.Errorf("state %s mixes phases: %+v", name, s)
			}
			if s.Entries == nil || s.RecentAddresses == nil {
				t.Errorf("state %s has nil slices", name)
			}
		})
	}
}

func TestLoadedStateCopiesEntries(t *testing.T) {
	entries := []LedgerEntry{{Digest: "d1", Kind: PublishKind{}}}
	s := LoadedState(entries)
	entries[0].Digest = "mutated"

	if s.Entries[0].Digest != "d1" {
		t.Errorf("committed entry changed to %q after caller mutation", s.Entries[0].Digest)
	}
}

func TestRecentAddresses(t *testing.T) {
	entries := []LedgerEntry{
		{Sender: "0xme", Kind: TransferSuiKind{Recipient: "0xbob"}},
		{Sender: "0xalice", Kind: TransferObjectKind{Recipient: "0xme"}},
		{Sender: "0xme", Kind: CallKind{Function: "mint"}},
		{Sender: "", Kind: TransferSuiKind{Recipient: "0xbob"}},
	}

	got := RecentAddresses(entries)
	want := []string{"0xbob", "0xme", "0xalice"}
	if !slices.Equal(got, want) {
		t.Errorf("RecentAddresses() = %v, want %v", got, want)
	}
}
