package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestProcess_Defaults(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s",
		"DEMO_MODE":  "true",
	}))
	if err != nil {
		t.Fatalf("process returned error: %v", err)
	}
	if cfg.Port != "5000" || cfg.Env != "development" || !cfg.IsDevelopment() {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.JWT.ExpiresIn != time.Hour || cfg.JWT.RefreshExpiresIn != 7*24*time.Hour {
		t.Errorf("unexpected token lifetimes: %+v", cfg.JWT)
	}
	if cfg.Razorpay.Currency != "INR" || cfg.WebhookWorkers != 4 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.HTTP.RateLimitWindow != 15*time.Minute || cfg.HTTP.RateLimitMax != 100 || !cfg.SeedOnStart {
		t.Errorf("unexpected http defaults: %+v", cfg.HTTP)
	}
	if len(cfg.Kafka.Brokers) != 0 || cfg.Kafka.TopicPrefix != "booking." {
		t.Errorf("unexpected kafka defaults: %+v", cfg.Kafka)
	}
}

func TestProcess_Overrides(t *testing.T) {
	cfg, err := process(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                    "9090",
		"ENV":                     "production",
		"JWT_SECRET":              "s",
		"JWT_EXPIRES_IN":          "15m",
		"RAZORPAY_KEY_ID":         "rzp_live",
		"RAZORPAY_KEY_SECRET":     "secret",
		"RAZORPAY_WEBHOOK_SECRET": "whsec",
		"KAFKA_BROKERS":           "k1:9092,k2:9092",
	}))
	if err != nil {
		t.Fatalf("process returned error: %v", err)
	}
	if cfg.Port != "9090" || !cfg.IsProduction() {
		t.Errorf("unexpected server config: %+v", cfg)
	}
	if cfg.JWT.ExpiresIn != 15*time.Minute {
		t.Errorf("unexpected access lifetime %s", cfg.JWT.ExpiresIn)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Kafka.Brokers)
	}
}

func TestProcess_Validation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"DEMO_MODE": "true"}},
		{"demo mode in production", map[string]string{"JWT_SECRET": "s", "ENV": "production", "DEMO_MODE": "true"}},
		{"missing gateway keys", map[string]string{"JWT_SECRET": "s"}},
		{"missing webhook secret", map[string]string{
			"JWT_SECRET": "s", "ENV": "production",
			"RAZORPAY_KEY_ID": "rzp_live", "RAZORPAY_KEY_SECRET": "secret",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := process(context.Background(), envconfig.MapLookuper(tc.env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "JWT_SECRET=from-file\nDEMO_MODE=true\nMONGO_DB=booking_test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	for _, k := range []string{"JWT_SECRET", "DEMO_MODE", "MONGO_DB"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.JWT.Secret != "from-file" || cfg.Mongo.Database != "booking_test" {
		t.Errorf("expected values from env file, got %+v", cfg)
	}
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("DEMO_MODE", "true")

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
}
