package testutil

import (
	"testing"

	"github.com/Anshpatel2434/Demaze-task/internal/gateway/local"
)

// NewLocalGateway creates an in-memory sqlite gateway with all
// migrations applied and the seed admin signed in. It is closed
// automatically when the test completes.
func NewLocalGateway(t *testing.T) *local.Gateway {
	t.Helper()

	g, err := local.New(":memory:")
	if err != nil {
		t.Fatalf("creating test gateway: %v", err)
	}

	t.Cleanup(func() {
		if err := g.Close(); err != nil {
			t.Errorf("closing test gateway: %v", err)
		}
	})

	return g
}
