package config

import (
	"testing"
	"time"
)

// TestParseIntEnv проверяет разбор целочисленной переменной окружения.
func TestParseIntEnv(t *testing.T) {
	t.Setenv("TEST_INT_ENV", "42")

	got, err := parseIntEnv("TEST_INT_ENV", 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

// TestParseIntEnvInvalid проверяет отказ на нечисловое значение.
func TestParseIntEnvInvalid(t *testing.T) {
	t.Setenv("TEST_INT_ENV", "not-a-number")

	if _, err := parseIntEnv("TEST_INT_ENV", 7); err == nil {
		t.Fatal("expected error")
	}
}

// TestParseIntEnvMissing проверяет возврат значения по умолчанию.
func TestParseIntEnvMissing(t *testing.T) {
	got, err := parseIntEnv("MISSING_INT_ENV", 7)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

// TestParseDurationEnv проверяет разбор длительности из окружения.
func TestParseDurationEnv(t *testing.T) {
	t.Setenv("TEST_DURATION_ENV", "30s")

	got, err := parseDurationEnv("TEST_DURATION_ENV", time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 30*time.Second {
		t.Fatalf("expected 30s, got %v", got)
	}
}

// TestParseDurationEnvNegative проверяет отказ на неположительную длительность.
func TestParseDurationEnvNegative(t *testing.T) {
	t.Setenv("TEST_DURATION_ENV", "-5s")

	if _, err := parseDurationEnv("TEST_DURATION_ENV", time.Minute); err == nil {
		t.Fatal("expected error")
	}
}
