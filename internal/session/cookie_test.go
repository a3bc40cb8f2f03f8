package session

import (
	"testing"
	"time"
)

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour)

	value, err := codec.Issue("visitor-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	sid, err := codec.Verify(value)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sid != "visitor-1" {
		t.Fatalf("expected visitor-1, got %s", sid)
	}
}

func TestCookieCodecRejectsTampering(t *testing.T) {
	codec := NewCookieCodec("test-secret", time.Hour)

	value, err := codec.Issue("visitor-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(value + "x"); err == nil {
		t.Fatalf("expected tampered cookie to fail verification")
	}
}

func TestCookieCodecRejectsForeignSecret(t *testing.T) {
	value, err := NewCookieCodec("secret-a", time.Hour).Issue("visitor-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewCookieCodec("secret-b", time.Hour).Verify(value); err == nil {
		t.Fatalf("expected cookie signed with another secret to fail")
	}
}

func TestCookieCodecRejectsExpired(t *testing.T) {
	codec := NewCookieCodec("test-secret", -time.Minute)

	value, err := codec.Issue("visitor-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := codec.Verify(value); err == nil {
		t.Fatalf("expected expired cookie to fail verification")
	}
}
