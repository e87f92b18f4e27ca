package config

import (
	"os"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "gilbot_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	os.Setenv("SYLLABUS_SKIP_UNCHANGED", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if !cfg.Syllabus.SkipUnchanged {
		t.Fatalf("expected SkipUnchanged to be read from env")
	}
	if cfg.Server.Port == "" || cfg.MinIO.Bucket == "" {
		t.Fatalf("expected defaults to be applied: %+v", cfg)
	}
}
