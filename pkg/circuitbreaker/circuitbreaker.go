package circuitbreaker

import (
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var (
	// MaxNumOfFailingRequests ...
	MaxNumOfFailingRequests = 10
	// FailingRatio ...
	FailingRatio = 0.6
)

// NewWalletBreaker returns a *gobreaker.CircuitBreaker guarding the query
// calls of one wallet. It trips once the overall number of requests has
// passed a tweakable MaxNumOfFailingRequests cap with a failing ratio at or
// above FailingRatio, shielding the host page from a wedged extension.
func NewWalletBreaker(walletName string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: walletName,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return int(counts.Requests) > MaxNumOfFailingRequests && ratio >= FailingRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Debugf(
				"circuit breaker for wallet %s changed state from %s to %s",
				name, from, to,
			)
		},
	})
}
