package redact

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestPhone(t *testing.T) {
	got := Phone("+593999999999")
	if got != "+593****999" {
		t.Fatalf("Phone mask = %q, want %q", got, "+593****999")
	}

	// Masked output never equals the raw input and always carries the
	// literal marker.
	raw := "+12125551212"
	masked := Phone(raw)
	if masked == raw {
		t.Fatalf("masked output equals raw input: %q", masked)
	}
	if !strings.Contains(masked, "****") {
		t.Fatalf("masked output %q missing **** marker", masked)
	}
}

func TestPhone_Deterministic(t *testing.T) {
	a := Phone("+593999999999")
	b := Phone("+593999999999")
	if a != b {
		t.Fatalf("masking not deterministic: %q vs %q", a, b)
	}
}

func TestPhone_ShortInputFailsClosed(t *testing.T) {
	for _, s := range []string{"", "+1", "123456"} {
		if got := Phone(s); got != "****" {
			t.Errorf("Phone(%q) = %q, want full mask", s, got)
		}
	}
}

func TestEmail(t *testing.T) {
	got := Email("maria@example.com")
	if got != "ma***@example.com" {
		t.Fatalf("Email mask = %q, want %q", got, "ma***@example.com")
	}
	if got == "maria@example.com" {
		t.Fatal("masked output equals raw input")
	}
	if !strings.HasPrefix(got, "ma***@") {
		t.Fatalf("masked email %q does not match ^..\\*\\*\\*@", got)
	}
}

func TestEmail_DomainPreserved(t *testing.T) {
	got := Email("operations@tenant.example.org")
	if !strings.HasSuffix(got, "@tenant.example.org") {
		t.Fatalf("domain should survive masking, got %q", got)
	}
}

func TestEmail_FailClosed(t *testing.T) {
	for _, s := range []string{"", "noatsign", "a@b.co", "@example.com"} {
		if got := Email(s); got != "****" {
			t.Errorf("Email(%q) = %q, want full mask", s, got)
		}
	}
}

func TestCheckLine(t *testing.T) {
	bad := []string{
		"token=abc123",
		"user PASSWORD rejected",
		"api_key rotation due",
		"Secret value logged",
	}
	for _, s := range bad {
		if err := CheckLine(s); !errors.Is(err, ErrCredentialLeak) {
			t.Errorf("CheckLine(%q) = %v, want ErrCredentialLeak", s, err)
		}
	}

	good := []string{
		"Usuario autenticado exitosamente",
		"reservation confirmed for +593****999",
		"",
	}
	for _, s := range good {
		if err := CheckLine(s); err != nil {
			t.Errorf("CheckLine(%q) = %v, want nil", s, err)
		}
	}
}

func TestGuard_EmitsCleanLines(t *testing.T) {
	var buf bytes.Buffer
	g := NewGuard(zerolog.New(&buf))

	if err := g.Info("Usuario autenticado exitosamente"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Usuario autenticado exitosamente") {
		t.Fatalf("clean line not emitted: %s", buf.String())
	}
}

func TestGuard_BlocksCredentialLines(t *testing.T) {
	var buf bytes.Buffer
	g := NewGuard(zerolog.New(&buf))

	err := g.Info("token=abc123")
	if !errors.Is(err, ErrCredentialLeak) {
		t.Fatalf("expected ErrCredentialLeak, got %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "abc123") {
		t.Fatalf("offending content leaked to log output: %s", out)
	}
	if !strings.Contains(out, "credential_leak_blocked") {
		t.Fatalf("expected alert line, got: %s", out)
	}
}

func TestGuard_AllLevels(t *testing.T) {
	var buf bytes.Buffer
	g := NewGuard(zerolog.New(&buf))

	if err := g.Warn("window nearly full"); err != nil {
		t.Fatalf("Warn: %v", err)
	}
	if err := g.Error("admission failed"); err != nil {
		t.Fatalf("Error: %v", err)
	}
	if err := g.Warn("rotating secret now"); err == nil {
		t.Fatal("Warn should block credential terms")
	}
}
