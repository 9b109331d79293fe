package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "ticket-service",
			Environment: "development",
		},
		Server: ServerConfig{Port: 8080},
		JWT:    JWTConfig{Secret: "test-secret"},
		Reservation: ReservationConfig{
			HoldTimeout:    15 * time.Minute,
			SweepInterval:  5 * time.Minute,
			SweepBatchSize: 500,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "missing JWT secret",
			mutate:  func(c *Config) { c.JWT.Secret = "" },
			wantErr: true,
		},
		{
			name:    "non-positive hold timeout",
			mutate:  func(c *Config) { c.Reservation.HoldTimeout = 0 },
			wantErr: true,
		},
		{
			// Zero means the API server runs without the embedded sweeper.
			name:   "zero sweep interval disables embedded sweeper",
			mutate: func(c *Config) { c.Reservation.SweepInterval = 0 },
		},
		{
			name:    "negative sweep interval",
			mutate:  func(c *Config) { c.Reservation.SweepInterval = -time.Minute },
			wantErr: true,
		},
		{
			name:    "non-positive sweep batch size",
			mutate:  func(c *Config) { c.Reservation.SweepBatchSize = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
