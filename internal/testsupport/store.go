package testsupport

import (
	"testing"

	"kartei/internal/ledger"
)

// NewLedger opens a ledger store in the config's state directory and closes
// it when the test ends.
func NewLedger(t testing.TB, stateDir string) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(stateDir)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close ledger: %v", err)
		}
	})
	return store
}
