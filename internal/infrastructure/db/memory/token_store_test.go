package memory

import (
	"testing"

	"github.com/feedbackhub/portal/internal/infrastructure/db/storetest"
)

func TestTokenStore(t *testing.T) {
	storetest.Run(t, NewTokenStore())
}
