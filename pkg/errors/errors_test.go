package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			code:     ErrCodeInternal,
			expected: false,
		},
		{
			name:     "wrapped structured error",
			err:      Wrap(ErrCodeNetwork, errors.New("inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %v, want %v", got, ErrCodeTimeout)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidView, "no such view")); got != "no such view" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("raw")); got != "raw" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2026-09-01", false},
		{"", true},
		{"2026/09/01", true},
		{"tomorrow", true},
		{"2026-9-1", true},
	}

	for _, tt := range tests {
		err := ValidateDate(tt.date)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDate(%q) = %v, wantErr %v", tt.date, err, tt.wantErr)
		}
	}
}

func TestValidateSourceID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"team-u12", false},
		{"", true},
		{"../evil", true},
		{"a/b", true},
		{"with\x00null", true},
	}

	for _, tt := range tests {
		err := ValidateSourceID(tt.id)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSourceID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
		}
	}
}

func TestValidateFeedURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/cal.ics", false},
		{"http://example.com/cal.ics", false},
		{"", true},
		{"file:///etc/passwd", true},
		{"ftp://example.com/x", true},
	}

	for _, tt := range tests {
		err := ValidateFeedURL(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFeedURL(%q) = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}
