package kvstore

import (
	"testing"

	"github.com/techtrack/techtrack/internal/test_utils"
)

func TestSQLiteStore(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		return NewSQLiteStore(test_utils.SetupTestDB(t))
	})
}
