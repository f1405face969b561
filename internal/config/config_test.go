package config

import (
	"reflect"
	"testing"

	"github.com/kiwari-pos/ordering/internal/enum"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "IMAGE_POLICY", "ORDER_SUBMIT_MODE", "IMAGE_BUCKET", "STORAGE_VERIFY", "AUTO_MIGRATE", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Port != "8081" {
		t.Errorf("Port: got %q, want 8081", cfg.Port)
	}
	if cfg.Storage.Bucket != "MenuItemImages" {
		t.Errorf("Bucket: got %q, want MenuItemImages", cfg.Storage.Bucket)
	}
	if cfg.Screen.ImagePolicy != enum.ImagePolicyFailFast {
		t.Errorf("ImagePolicy: got %q, want %q", cfg.Screen.ImagePolicy, enum.ImagePolicyFailFast)
	}
	if cfg.Screen.SubmitMode != enum.SubmitModeSequential {
		t.Errorf("SubmitMode: got %q, want %q", cfg.Screen.SubmitMode, enum.SubmitModeSequential)
	}
	if cfg.AutoMigrate || cfg.Storage.Verify {
		t.Error("boolean flags should default to false")
	}
	if cfg.Notify.TelegramChatID != 0 {
		t.Errorf("TelegramChatID: got %d, want 0", cfg.Notify.TelegramChatID)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("IMAGE_POLICY", "Placeholder")
	t.Setenv("ORDER_SUBMIT_MODE", "transactional")
	t.Setenv("STORAGE_URL", "https://proj.example.co/")
	t.Setenv("STORAGE_VERIFY", "true")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port: got %q", cfg.Port)
	}
	if cfg.Screen.ImagePolicy != enum.ImagePolicyPlaceholder {
		t.Errorf("ImagePolicy: got %q", cfg.Screen.ImagePolicy)
	}
	if cfg.Screen.SubmitMode != enum.SubmitModeTransactional {
		t.Errorf("SubmitMode: got %q", cfg.Screen.SubmitMode)
	}
	if cfg.Storage.URL != "https://proj.example.co" {
		t.Errorf("Storage.URL: got %q, want trailing slash trimmed", cfg.Storage.URL)
	}
	if !cfg.Storage.Verify {
		t.Error("Storage.Verify: want true")
	}
	if cfg.Notify.TelegramChatID != -100123 {
		t.Errorf("TelegramChatID: got %d", cfg.Notify.TelegramChatID)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins: got %v, want %v", cfg.CORSOrigins, want)
	}
}

func TestLoad_UnknownEnumFallsBack(t *testing.T) {
	t.Setenv("ORDER_SUBMIT_MODE", "yolo")
	t.Setenv("IMAGE_POLICY", "lazy")

	cfg := Load()

	if cfg.Screen.SubmitMode != enum.SubmitModeSequential {
		t.Errorf("SubmitMode: got %q", cfg.Screen.SubmitMode)
	}
	if cfg.Screen.ImagePolicy != enum.ImagePolicyFailFast {
		t.Errorf("ImagePolicy: got %q", cfg.Screen.ImagePolicy)
	}
}
