package core

import "time"

const (
	// Outbound collaborator calls are bounded; timing out is a recoverable
	// failure, not a crash.
	ExternalCallTimeout = 8 * time.Second
	DispatchTimeout     = 10 * time.Second
	GatewayTimeout      = 8 * time.Second
	CatalogTimeout      = 5 * time.Second

	ShutdownTimeout = 15 * time.Second

	MinTransactionIDLen = 6
	MinReferenceLen     = 6

	DefaultIdempotencyTTL = 24 * time.Hour

	// MBReconnInterval is the delay between broker reconnect attempts.
	MBReconnInterval = 5 * time.Second
)
