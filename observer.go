package mlpq

import "sync"

// Observer receives notifications at well-defined operation boundaries.
// Events never carry key material, seeds or message content. The default
// observer is a no-op.
type Observer interface {
	KeyPairGenerated(scheme string, level SecurityLevel)
	Encapsulated(level SecurityLevel)
	Decapsulated(level SecurityLevel)
	SignatureProduced(level SecurityLevel, attempts int)
	SignatureVerified(level SecurityLevel, ok bool)
}

var (
	observerMu sync.RWMutex
	observer   Observer
)

// SetObserver installs obs as the process-wide observer. Passing nil
// restores the no-op default.
func SetObserver(obs Observer) {
	observerMu.Lock()
	observer = obs
	observerMu.Unlock()
}

func currentObserver() Observer {
	observerMu.RLock()
	defer observerMu.RUnlock()
	return observer
}

// NotifyKeyPairGenerated reports a completed key generation. scheme is
// "kem" or "sign".
func NotifyKeyPairGenerated(scheme string, level SecurityLevel) {
	if obs := currentObserver(); obs != nil {
		obs.KeyPairGenerated(scheme, level)
	}
}

// NotifyEncapsulated reports a completed encapsulation.
func NotifyEncapsulated(level SecurityLevel) {
	if obs := currentObserver(); obs != nil {
		obs.Encapsulated(level)
	}
}

// NotifyDecapsulated reports a completed decapsulation. It fires on both
// the success and the implicit-rejection path; the event does not reveal
// which one occurred.
func NotifyDecapsulated(level SecurityLevel) {
	if obs := currentObserver(); obs != nil {
		obs.Decapsulated(level)
	}
}

// NotifySignatureProduced reports a completed signing operation and the
// number of rejection-sampling attempts it took.
func NotifySignatureProduced(level SecurityLevel, attempts int) {
	if obs := currentObserver(); obs != nil {
		obs.SignatureProduced(level, attempts)
	}
}

// NotifySignatureVerified reports the outcome of a verification.
func NotifySignatureVerified(level SecurityLevel, ok bool) {
	if obs := currentObserver(); obs != nil {
		obs.SignatureVerified(level, ok)
	}
}
