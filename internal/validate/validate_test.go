package validate

import (
	"testing"
	"time"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"mobile starting with 6", "677123456", true},
		{"mobile starting with 9", "912345678", true},
		{"eight digits", "67712345", true},
		{"formatted with separators", "67-712-3456", true},
		{"formatted with spaces", "6 77 12 34 56", true},
		{"bad leading digit", "512345678", false},
		{"too short", "6771234", false},
		{"too long", "6771234567", false},
		{"empty", "", false},
		{"letters only", "abcdefgh", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Phone(tt.input); got != tt.want {
				t.Errorf("Phone(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"67-712-3456", "677123456"},
		{"6 77 12 34 56", "677123456"},
		{"+237677123456", "237677123456"},
		{"677123456", "677123456"},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.input); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNationalID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"twelve digits", "123456789012", true},
		{"empty is allowed", "", true},
		{"too short", "12345", false},
		{"too long", "1234567890123", false},
		{"contains letters", "12345678901a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NationalID(tt.input); got != tt.want {
				t.Errorf("NationalID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("15/03/1990")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}

	if _, err := ParseDate("1990-03-15"); err == nil {
		t.Error("expected error for ISO-formatted date")
	}
	if _, err := ParseDate("31/02/2024"); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"09:30", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"09:60", false},
		{"noon", false},
	}

	for _, tt := range tests {
		if got := TimeOfDay(tt.input); got != tt.want {
			t.Errorf("TimeOfDay(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
