package service

import (
	"math/rand"

	"txDashApp/internal/domain/model"
)

// Fraud flag reasons, in rule priority order.
const (
	ReasonHighValue         = "High Value Transaction"
	ReasonUnusualLocation   = "Unusual Geographical Location"
	ReasonFailedAttempts    = "Multiple Failed Attempts"
	ReasonSuspiciousPattern = "Suspicious Transaction Pattern"
)

// lowRiskCountries are countries that do not trigger the geographical rule.
var lowRiskCountries = map[string]struct{}{
	"United States":  {},
	"Canada":         {},
	"United Kingdom": {},
	"Germany":        {},
	"France":         {},
	"Japan":          {},
	"Australia":      {},
	"India":          {},
}

// FraudDetector evaluates transactions against a fixed rule set. The random
// source is injected so the probabilistic rules are testable.
type FraudDetector struct {
	rng *rand.Rand
}

// NewFraudDetector creates a detector with the given random source.
// A nil source disables the probabilistic rules.
func NewFraudDetector(rng *rand.Rand) *FraudDetector {
	return &FraudDetector{rng: rng}
}

// Evaluate applies the fraud rules to a transaction and returns the outcome.
// Rules are checked in priority order; the first match wins.
func (d *FraudDetector) Evaluate(amount float64, country string) model.FraudDetection {
	switch {
	case amount > 8000:
		return model.FraudDetection{Flagged: true, Reason: ReasonHighValue}
	case !isLowRiskCountry(country):
		return model.FraudDetection{Flagged: true, Reason: ReasonUnusualLocation}
	case d.rng != nil && d.rng.Float64() < 0.01:
		return model.FraudDetection{Flagged: true, Reason: ReasonFailedAttempts}
	case amount > 5000 && d.rng != nil && d.rng.Float64() < 0.05:
		return model.FraudDetection{Flagged: true, Reason: ReasonSuspiciousPattern}
	}
	return model.FraudDetection{}
}

func isLowRiskCountry(country string) bool {
	_, ok := lowRiskCountries[country]
	return ok
}
