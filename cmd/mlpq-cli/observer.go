package main

import (
	"cosmossdk.io/log"

	mlpq "github.com/latticeworks/mlpq-go"
)

// logObserver forwards operation events to a structured logger. Events
// carry only operation metadata, never key material.
type logObserver struct {
	logger log.Logger
}

func newLogObserver(logger log.Logger) *logObserver {
	return &logObserver{logger: logger.With("component", "mlpq")}
}

func (o *logObserver) KeyPairGenerated(scheme string, level mlpq.SecurityLevel) {
	o.logger.Info("key pair generated", "scheme", scheme, "level", level)
}

func (o *logObserver) Encapsulated(level mlpq.SecurityLevel) {
	o.logger.Info("encapsulated", "level", level)
}

func (o *logObserver) Decapsulated(level mlpq.SecurityLevel) {
	o.logger.Info("decapsulated", "level", level)
}

func (o *logObserver) SignatureProduced(level mlpq.SecurityLevel, attempts int) {
	o.logger.Info("signature produced", "level", level, "attempts", attempts)
}

func (o *logObserver) SignatureVerified(level mlpq.SecurityLevel, ok bool) {
	o.logger.Info("signature verified", "level", level, "ok", ok)
}
