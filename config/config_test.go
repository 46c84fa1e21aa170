package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8081",
			BaseURL:        "https://mentorconnect.app",
			AllowedOrigins: []string{"https://mentorconnect.app"},
		},
		Database: DatabaseConfig{URL: "postgres://localhost/mentorconnect"},
		Auth:     AuthConfig{JWTSecret: "secret"},
		Razorpay: RazorpayConfig{KeyID: "rzp_test_key", KeySecret: "rzp_test_secret"},
		SMTP:     SMTPConfig{Enabled: true, Host: "smtp.example.com", From: "no-reply@mentorconnect.app"},
		Twilio:   TwilioConfig{Enabled: true, AccountSID: "AC123", AuthToken: "token"},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid config",
			mutate:      func(*Config) {},
			expectError: false,
		},
		{
			name:        "missing database URL",
			mutate:      func(c *Config) { c.Database.URL = "" },
			expectError: true,
			errorMsg:    "DATABASE_URL is required",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.Auth.JWTSecret = "" },
			expectError: true,
			errorMsg:    "JWT_SECRET is required",
		},
		{
			name:        "missing razorpay credentials",
			mutate:      func(c *Config) { c.Razorpay.KeySecret = "" },
			expectError: true,
			errorMsg:    "RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required",
		},
		{
			name:        "smtp enabled without host",
			mutate:      func(c *Config) { c.SMTP.Host = "" },
			expectError: true,
			errorMsg:    "SMTP_HOST is required",
		},
		{
			name: "smtp disabled without host is fine",
			mutate: func(c *Config) {
				c.SMTP.Enabled = false
				c.SMTP.Host = ""
			},
			expectError: false,
		},
		{
			name:        "twilio enabled without credentials",
			mutate:      func(c *Config) { c.Twilio.AuthToken = "" },
			expectError: true,
			errorMsg:    "TWILIO_ACCOUNT_SID and TWILIO_AUTH_TOKEN are required",
		},
		{
			name:        "missing allowed origins",
			mutate:      func(c *Config) { c.Server.AllowedOrigins = nil },
			expectError: true,
			errorMsg:    "ALLOWED_CORS_ORIGINS is required",
		},
		{
			name: "profiling enabled without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
				c.Profiling.Endpoint = ""
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	// Save current directory and change to a temp directory without .env file
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	// Clean environment
	os.Clearenv()

	// Set only required fields
	os.Setenv("DATABASE_URL", "postgres://localhost/mentorconnect")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	os.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_FROM", "no-reply@mentorconnect.app")
	os.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	os.Setenv("TWILIO_AUTH_TOKEN", "token")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "INR", cfg.Razorpay.Currency)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 24, cfg.Auth.SessionTTLHours)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.Equal(t, 60, cfg.Calendar.SessionLengthMinutes)
	assert.Equal(t, 600, cfg.Cache.MentorTTLSeconds)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	// Clean environment
	os.Clearenv()

	// Set environment variables
	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("DATABASE_URL", "postgres://localhost/mentorconnect")
	os.Setenv("JWT_SECRET", "env-secret")
	os.Setenv("RAZORPAY_KEY_ID", "rzp_live_key")
	os.Setenv("RAZORPAY_KEY_SECRET", "rzp_live_secret")
	os.Setenv("RAZORPAY_CURRENCY", "USD")
	os.Setenv("SMTP_HOST", "smtp.example.com")
	os.Setenv("SMTP_FROM", "hello@mentorconnect.app")
	os.Setenv("TWILIO_ACCOUNT_SID", "AC456")
	os.Setenv("TWILIO_AUTH_TOKEN", "token2")
	os.Setenv("TWILIO_FROM_NUMBER", "+15550001111")
	os.Setenv("CALENDAR_TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Verify values from environment
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "rzp_live_key", cfg.Razorpay.KeyID)
	assert.Equal(t, "USD", cfg.Razorpay.Currency)
	assert.Equal(t, "+15550001111", cfg.Twilio.FromNumber)
	assert.Equal(t, "Asia/Kolkata", cfg.Calendar.Timezone)
}

func TestLoad_ValidationFailure(t *testing.T) {
	// Save current directory and change to a temp directory without .env file
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	// Clean environment - missing required fields
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://localhost/mentorconnect")
	// Missing JWT_SECRET and Razorpay credentials

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
