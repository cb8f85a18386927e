package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a storage transaction.
	// A unit of work that cannot commit in time is rolled back and reported.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// reconciliationBatchSize bounds each page read while reconciling all accounts.
	reconciliationBatchSize = 500
)
