package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrNotInitialized    = fmt.Errorf("relay not initialized: signer and ledger connection are required")
	ErrEmptyContent      = fmt.Errorf("message content is empty")
	ErrInvalidPayload    = fmt.Errorf("invalid event payload")
	ErrInvalidSignature  = fmt.Errorf("row signature does not match signer")
	ErrNoTableAddress    = fmt.Errorf("room has no table address")
	ErrSourceUnavailable = fmt.Errorf("read source not configured")
	ErrUnexpectedStatus  = fmt.Errorf("unexpected http status")
	ErrInvalidSignerSeed = fmt.Errorf("signer seed must be 32 hex-encoded bytes")
)
