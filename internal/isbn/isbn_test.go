package isbn

import "testing"

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid ISBN-13", "9780743273565", true},
		{"valid ISBN-13 with hyphens", "978-0-7432-7356-5", true},
		{"valid ISBN-13 with spaces", "978 0 7432 7356 5", true},
		{"ISBN-13 flipped digit", "9780743273566", false},
		{"ISBN-13 flipped first digit", "8780743273565", false},
		{"valid ISBN-10", "0306406152", true},
		{"valid ISBN-10 with X check", "043942089X", true},
		{"valid ISBN-10 lowercase x", "043942089x", true},
		{"ISBN-10 flipped digit", "0306406153", false},
		{"ISBN-10 wrong X", "030640615X", false},
		{"too short", "12345", false},
		{"too long", "97807432735650", false},
		{"letters", "abcdefghij", false},
		{"X in middle", "04394X0892", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.input); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"978-0-7432-7356-5", "9780743273565"},
		{" 0306406152 ", "0306406152"},
		{"978 0 7432 7356 5", "9780743273565"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestExtractFromText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "isbn-13 on copyright line",
			text: "First published 2004\nISBN 978-0-7432-7356-5\nPrinted in the USA",
			want: "9780743273565",
		},
		{
			name: "isbn-10 with X",
			text: "Cover art by someone\n043942089X\nScholastic",
			want: "043942089X",
		},
		{
			name: "invalid checksum skipped",
			text: "ISBN 9780743273566 and later 9780743273565",
			want: "9780743273565",
		},
		{
			name: "no isbn",
			text: "A NOVEL by Some Author",
			want: "",
		},
		{
			name: "random digits not validated",
			text: "Call 555-867-5309 ext 12345",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFromText(tt.text); got != tt.want {
				t.Errorf("ExtractFromText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
