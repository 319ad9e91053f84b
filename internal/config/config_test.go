package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Game.ImagesPerCategory != 10 {
		t.Fatalf("expected 10 images per category, got %d", cfg.Game.ImagesPerCategory)
	}
	if cfg.Game.FilterByBirthYear {
		t.Fatal("birth year filter should default to off")
	}
	if cfg.Daily.CronSpec != "0 0 * * *" {
		t.Fatalf("unexpected cron spec: %s", cfg.Daily.CronSpec)
	}
	if cfg.Redis.Enabled() || cfg.Postgres.Enabled() {
		t.Fatal("optional backends should be disabled by default")
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("IMAGES_PER_CATEGORY", "4")
	t.Setenv("FILTER_BY_BIRTH_YEAR", "true")
	t.Setenv("MIN_BIRTH_YEAR", "1900")
	t.Setenv("REDIS_HOST", "localhost")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Game.ImagesPerCategory != 4 {
		t.Fatalf("expected 4 images per category, got %d", cfg.Game.ImagesPerCategory)
	}
	if !cfg.Game.FilterByBirthYear || cfg.Game.MinBirthYear != 1900 {
		t.Fatalf("birth year settings not applied: %+v", cfg.Game)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("expected redis to be enabled")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("PORT", "99999")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}

	t.Setenv("PORT", "3000")
	t.Setenv("IMAGES_PER_CATEGORY", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for zero images per category")
	}
}
