package otp

import (
	"strings"
	"testing"
)

func TestGenerateCode(t *testing.T) {
	tests := []struct {
		name       string
		length     int
		wantLength int
	}{
		{name: "default length", length: 0, wantLength: DefaultCodeLength},
		{name: "negative falls back to default", length: -1, wantLength: DefaultCodeLength},
		{name: "custom length", length: 8, wantLength: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := GenerateCode(tt.length)
			if err != nil {
				t.Fatalf("GenerateCode() error = %v", err)
			}
			if len(code) != tt.wantLength {
				t.Errorf("len(code) = %d, want %d", len(code), tt.wantLength)
			}
			for _, r := range code {
				if r < '0' || r > '9' {
					t.Errorf("code %q contains non-digit %q", code, r)
				}
			}
		})
	}
}

func TestGenerateCode_AllDigitsReachable(t *testing.T) {
	// The generator discards bytes that would skew the digit distribution,
	// so every digit including 6..9 must show up over enough samples.
	seen := make(map[rune]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode(DefaultCodeLength)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		for _, r := range code {
			seen[r] = true
		}
	}

	for _, r := range "0123456789" {
		if !seen[r] {
			t.Errorf("digit %q never generated", r)
		}
	}
}

func TestGenerateCode_Varies(t *testing.T) {
	first, err := GenerateCode(10)
	if err != nil {
		t.Fatalf("GenerateCode() error = %v", err)
	}

	for i := 0; i < 5; i++ {
		code, err := GenerateCode(10)
		if err != nil {
			t.Fatalf("GenerateCode() error = %v", err)
		}
		if code != first {
			return
		}
	}

	t.Errorf("GenerateCode() returned %q six times in a row", first)
}

func TestHashCode(t *testing.T) {
	hash := HashCode("123456")

	if hash == "123456" {
		t.Error("HashCode() returned the plaintext code")
	}
	if len(hash) != 64 {
		t.Errorf("len(hash) = %d, want 64", len(hash))
	}
	if hash != HashCode("123456") {
		t.Error("HashCode() is not deterministic")
	}
	if strings.EqualFold(hash, HashCode("123457")) {
		t.Error("HashCode() collides on neighbouring codes")
	}
}

func TestCompareCode(t *testing.T) {
	stored := HashCode("654321")

	if !CompareCode(stored, "654321") {
		t.Error("CompareCode() rejected the matching code")
	}
	if CompareCode(stored, "654320") {
		t.Error("CompareCode() accepted a wrong code")
	}
	if CompareCode(stored, "") {
		t.Error("CompareCode() accepted an empty code")
	}
}
