package postgres

import "testing"

func TestPoolConfig(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		maxConns int32
		appName  string
	}{
		{"defaults", "postgres://lab:pw@localhost:5432/cache", defaultMaxConns, applicationName},
		{"dsn pool size", "postgres://lab:pw@localhost:5432/cache?pool_max_conns=12", 12, applicationName},
		{"dsn application name", "postgres://lab:pw@localhost:5432/cache?application_name=other", defaultMaxConns, "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := poolConfig(tt.dsn)
			if err != nil {
				t.Fatalf("poolConfig failed: %v", err)
			}
			if cfg.MaxConns != tt.maxConns {
				t.Errorf("MaxConns = %d, want %d", cfg.MaxConns, tt.maxConns)
			}
			if got := cfg.ConnConfig.RuntimeParams["application_name"]; got != tt.appName {
				t.Errorf("application_name = %q, want %q", got, tt.appName)
			}
		})
	}
}

func TestPoolConfig_InvalidDSN(t *testing.T) {
	if _, err := poolConfig("postgres://%zz"); err == nil {
		t.Error("expected error for malformed dsn")
	}
}
