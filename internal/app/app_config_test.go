package app

import (
	"testing"

	"github.com/LaFavela/sehatin-be-auth/internal/pkg/config"
)

// Every consumer tuning key the messaging initializer reads must be present
// in the shipped config, otherwise the value silently falls back to zero.
func TestShippedConfigCarriesNSQConsumerSettings(t *testing.T) {
	// Arrange
	cfg, err := config.NewViper("../../config/config.yaml")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	keys := []string{
		"messaging.nsq.consumer_config.max_in_flight",
		"messaging.nsq.consumer_config.max_attempts",
		"messaging.nsq.consumer_config.lookupd_poll_interval_seconds",
		"messaging.nsq.consumer_config.dial_timeout_seconds",
		"messaging.nsq.consumer_config.read_timeout_seconds",
		"messaging.nsq.consumer_config.write_timeout_seconds",
		"messaging.nsq.consumer_config.default_requeue_delay_seconds",
		"messaging.nsq.consumer_config.max_requeue_delay_seconds",
	}

	// Act & Assert
	for _, key := range keys {
		if cfg.GetUint16(key) == 0 {
			t.Fatalf("config key %q is missing or zero", key)
		}
	}
}
