package config

import (
	"fmt"
	"time"

	"github.com/cardano-connect/go-cip30/pkg/cardano"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// RequestTimeoutKey is the time to wait for a wallet to answer a query call
	// before giving up on it
	RequestTimeoutKey = "REQUEST_TIMEOUT"
	// EnableTimeoutKey is the time to wait for the user to answer the connect
	// prompt. Longer than RequestTimeoutKey since a human is in the loop.
	EnableTimeoutKey = "ENABLE_TIMEOUT"
	// ExpectedNetworkKey pins the network every enabled wallet must be on.
	// Either "mainnet" or "testnet", empty accepts any.
	ExpectedNetworkKey = "EXPECTED_NETWORK"
	// DefaultPageSizeKey is the page size used when listing utxos and addresses
	// without an explicit pagination
	DefaultPageSizeKey = "DEFAULT_PAGE_SIZE"
	// DiscoveryIntervalKey is the interval between two scans of the wallet
	// registry
	DiscoveryIntervalKey = "DISCOVERY_INTERVAL"
	// BridgeURLKey is the websocket endpoint of a browser-extension bridge to
	// connect to, ie. ws://localhost:9700/wallet
	BridgeURLKey = "BRIDGE_URL"

	mainnetName = "mainnet"
	testnetName = "testnet"
)

var vip *viper.Viper

func init() {
	vip = viper.New()
	vip.SetEnvPrefix("CIP30")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(RequestTimeoutKey, 30*time.Second)
	vip.SetDefault(EnableTimeoutKey, 2*time.Minute)
	vip.SetDefault(ExpectedNetworkKey, "")
	vip.SetDefault(DefaultPageSizeKey, 20)
	vip.SetDefault(DiscoveryIntervalKey, time.Second)

	if err := validate(); err != nil {
		log.WithError(err).Panic("invalid config")
	}

	log.SetLevel(log.Level(GetInt(LogLevelKey)))
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func Set(key string, val interface{}) {
	vip.Set(key, val)
}

// GetExpectedNetwork returns the pinned network id, or ok=false when any
// network is accepted.
func GetExpectedNetwork() (cardano.NetworkID, bool) {
	switch GetString(ExpectedNetworkKey) {
	case mainnetName:
		return cardano.NetworkMainnet, true
	case testnetName:
		return cardano.NetworkTestnet, true
	default:
		return 0, false
	}
}

func validate() error {
	if name := vip.GetString(ExpectedNetworkKey); name != "" &&
		name != mainnetName && name != testnetName {
		return fmt.Errorf(
			"%s must be %q or %q, got %q",
			ExpectedNetworkKey, mainnetName, testnetName, name,
		)
	}

	if timeout := vip.GetDuration(RequestTimeoutKey); timeout <= 0 {
		return fmt.Errorf("%s must be positive", RequestTimeoutKey)
	}
	if timeout := vip.GetDuration(EnableTimeoutKey); timeout <= 0 {
		return fmt.Errorf("%s must be positive", EnableTimeoutKey)
	}
	if size := vip.GetInt(DefaultPageSizeKey); size <= 0 {
		return fmt.Errorf("%s must be positive", DefaultPageSizeKey)
	}
	return nil
}
