package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		unsetenv(t, "APP_ENV", "HTTP_ADDR", "DB_DSN", "FACILITY_TIMEZONE", "RESERVATION_TIMEOUT", "BOOKING_EXCHANGE")

		cfg, err := Parse()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 5*time.Second, cfg.ReservationTimeout)
		assert.Equal(t, "booking.exchange", cfg.BookingExchange)
		assert.Equal(t, time.UTC, cfg.Location)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		t.Setenv("DB_DSN", "postgres://localhost/booking")
		t.Setenv("FACILITY_TIMEZONE", "Asia/Taipei")
		t.Setenv("RESERVATION_TIMEOUT", "750ms")

		cfg, err := Parse()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "postgres://localhost/booking", cfg.DBDSN)
		assert.Equal(t, "Asia/Taipei", cfg.Location.String())
		assert.Equal(t, 750*time.Millisecond, cfg.ReservationTimeout)
	})

	t.Run("Invalid values", func(t *testing.T) {
		t.Setenv("FACILITY_TIMEZONE", "Mars/Olympus")
		_, err := Parse()
		assert.Error(t, err)

		t.Setenv("FACILITY_TIMEZONE", "UTC")
		t.Setenv("RESERVATION_TIMEOUT", "soon")
		_, err = Parse()
		assert.Error(t, err)

		t.Setenv("RESERVATION_TIMEOUT", "0s")
		_, err = Parse()
		assert.Error(t, err)
	})
}

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
