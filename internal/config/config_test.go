package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:               "abc",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range",
			config: Config{
				Port:               "70000",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "missing database path",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "missing JWT secret",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "JWT_SECRET must be set",
		},
		{
			name: "token TTL too short",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           30 * time.Second,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "must be at least 1 minute",
		},
		{
			name: "token TTL too long",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           31 * 24 * time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "must be at most 30 days",
		},
		{
			name: "invalid recent limit",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        0,
				TopCategoriesLimit: 3,
			},
			wantErr:     true,
			errorString: "invalid recent limit 0: must be at least 1",
		},
		{
			name: "invalid top categories limit",
			config: Config{
				Port:               "8080",
				SQLiteDBPath:       "./test.db",
				JWTSecret:          "secret",
				TokenTTL:           time.Hour,
				RecentLimit:        10,
				TopCategoriesLimit: 0,
			},
			wantErr:     true,
			errorString: "invalid top categories limit 0: must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := Config{
		Port:               "abc",
		SQLiteDBPath:       "",
		JWTSecret:          "",
		TokenTTL:           0,
		RecentLimit:        0,
		TopCategoriesLimit: 0,
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Config.Validate() error = nil, want all problems reported")
	}
	for _, want := range []string{
		"invalid port",
		"database path cannot be empty",
		"JWT_SECRET must be set",
		"at least 1 minute",
		"invalid recent limit",
		"invalid top categories limit",
	} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Config.Validate() error missing %q: %v", want, err)
		}
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"PORT":                 os.Getenv("PORT"),
		"SQLITE_DB_PATH":       os.Getenv("SQLITE_DB_PATH"),
		"JWT_SECRET":           os.Getenv("JWT_SECRET"),
		"TOKEN_TTL":            os.Getenv("TOKEN_TTL"),
		"RECENT_LIMIT":         os.Getenv("RECENT_LIMIT"),
		"TOP_CATEGORIES_LIMIT": os.Getenv("TOP_CATEGORIES_LIMIT"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8080" {
			t.Errorf("Load() Port = %v, want 8080", cfg.Port)
		}
		if cfg.SQLiteDBPath != "./data/fintrack.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/fintrack.db", cfg.SQLiteDBPath)
		}
		if cfg.JWTSecret != "" {
			t.Errorf("Load() JWTSecret = %v, want empty", cfg.JWTSecret)
		}
		if cfg.TokenTTL != 168*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want 168h", cfg.TokenTTL)
		}
		if cfg.RecentLimit != 10 {
			t.Errorf("Load() RecentLimit = %v, want 10", cfg.RecentLimit)
		}
		if cfg.TopCategoriesLimit != 3 {
			t.Errorf("Load() TopCategoriesLimit = %v, want 3", cfg.TopCategoriesLimit)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("JWT_SECRET", "s3cr3t")
		os.Setenv("TOKEN_TTL", "2h")
		os.Setenv("RECENT_LIMIT", "25")
		os.Setenv("TOP_CATEGORIES_LIMIT", "5")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.JWTSecret != "s3cr3t" {
			t.Errorf("Load() JWTSecret = %v, want s3cr3t", cfg.JWTSecret)
		}
		if cfg.TokenTTL != 2*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want 2h", cfg.TokenTTL)
		}
		if cfg.RecentLimit != 25 {
			t.Errorf("Load() RecentLimit = %v, want 25", cfg.RecentLimit)
		}
		if cfg.TopCategoriesLimit != 5 {
			t.Errorf("Load() TopCategoriesLimit = %v, want 5", cfg.TopCategoriesLimit)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("TOKEN_TTL", "invalid")
		os.Setenv("RECENT_LIMIT", "invalid")

		cfg := Load()

		if cfg.TokenTTL != 168*time.Hour {
			t.Errorf("Load() TokenTTL = %v, want 168h (default for invalid input)", cfg.TokenTTL)
		}
		if cfg.RecentLimit != 10 {
			t.Errorf("Load() RecentLimit = %v, want 10 (default for invalid input)", cfg.RecentLimit)
		}
	})
}
