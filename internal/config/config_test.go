package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "secret")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.InDelta(t, 0.05, cfg.Pricing.TaxRate, 1e-9)
	assert.InDelta(t, 8.99, cfg.Pricing.DeliveryFee, 1e-9)
	assert.Equal(t, BrokerNone, cfg.Events.Broker)
	assert.Equal(t, "Taste of Egypt YYC", cfg.Restaurant.Name)
	assert.False(t, cfg.Email.Configured())
	assert.Equal(t, 4, cfg.Notify.Workers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DELIVERY_FEE", "5.5")
	t.Setenv("EMAIL_USER", "kitchen@example.com")
	t.Setenv("EMAIL_PASS", "pw")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.InDelta(t, 5.5, cfg.Pricing.DeliveryFee, 1e-9)
	assert.True(t, cfg.Email.Configured())
	assert.Equal(t, "kitchen@example.com", cfg.Email.From)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"negative tax", "TAX_RATE", -0.1},
		{"negative fee", "DELIVERY_FEE", -1},
		{"unknown driver", "DATABASE_DRIVER", "oracle"},
		{"unknown broker", "EVENT_BROKER", "nats"},
		{"kafka without brokers", "EVENT_BROKER", "kafka"},
		{"no workers", "NOTIFY_WORKERS", 0},
		{"bad ttl", "JWT_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("JWT_SECRET", "secret")
			v.Set(tt.key, tt.val)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}

	_, err := Load(viper.New())
	assert.Error(t, err, "missing JWT secret")
}
