package runtime

import "chat-relay/contract"

// Capability is chosen once at startup. A WriteCapable relay owns a ledger
// connection and a signer; a ReadOnly relay can only read through the HTTP tiers.
type Capability interface {
	// SelfAddress is the local identity used to suppress self-echo.
	SelfAddress() string
	capability()
}

type ReadOnly struct {
	Address string
}

func (r ReadOnly) SelfAddress() string { return r.Address }
func (ReadOnly) capability()           {}

type WriteCapable struct {
	Ledger contract.Ledger
	Signer contract.Signer
}

func (w WriteCapable) SelfAddress() string {
	if w.Signer == nil {
		return ""
	}
	return w.Signer.Address()
}

func (WriteCapable) capability() {}

// writeCapable returns the ledger side of the capability, if any.
func writeCapable(c Capability) (WriteCapable, bool) {
	w, ok := c.(WriteCapable)
	if !ok || w.Ledger == nil {
		return WriteCapable{}, false
	}
	return w, true
}
