package core

import "testing"

func TestCleanCell(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// Basic cleaning
		{
			name:  "simple string unchanged",
			input: "hello",
			want:  "hello",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},

		// Whitespace trimming
		{
			name:  "surrounded by whitespace",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "tabs and newlines",
			input: "\tOffice Door\n",
			want:  "Office Door",
		},

		// Excel formula prefix handling
		{
			name:  "Excel formula with quotes",
			input: `="hello"`,
			want:  "hello",
		},
		{
			name:  "Excel formula number as text",
			input: `="120"`,
			want:  "120",
		},
		{
			name:  "equals at start only",
			input: "=hello",
			want:  "hello",
		},

		// Quote handling
		{
			name:  "double quotes removed",
			input: `"hello"`,
			want:  "hello",
		},
		{
			name:  "leading single quote (Excel text prefix)",
			input: "'12345",
			want:  "12345",
		},
		{
			name:  "inner apostrophe kept",
			input: "Architect's desk",
			want:  "Architect's desk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantOK  bool
		wantErr bool
	}{
		{"integer", "120", 120, true, false},
		{"decimal", "75.5", 75.5, true, false},
		{"leading dot", ".5", 0.5, true, false},
		{"negative", "-3", -3, true, false},
		{"thousands separator", "1,200", 1200, true, false},
		{"thousands groups with decimals", "12,345,678.25", 12345678.25, true, false},
		{"decimal comma", "0,8", 0, false, true},
		{"decimal comma above one", "1,5", 0, false, true},
		{"short thousands group", "1,20", 0, false, true},
		{"scientific", "1.5e2", 150, true, false},
		{"formula wrapped", `="90"`, 90, true, false},
		{"whitespace", "  42  ", 42, true, false},
		{"blank", "", 0, false, false},
		{"only spaces", "   ", 0, false, false},
		{"letters", "wide", 0, false, true},
		{"unit suffix", "90cm", 0, false, true},
		{"two dots", "1.2.3", 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ParseNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNumber(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("ParseNumber(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantOK  bool
		wantErr bool
	}{
		{"true", true, true, false},
		{"TRUE", true, true, false},
		{"False", false, true, false},
		{"1", true, true, false},
		{"0", false, true, false},
		{"2", true, true, false},
		{"", false, false, false},
		{"yes", false, false, true},
		{"maybe", false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok, err := ParseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseBool(%q) = %v, %v, want %v, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{120, "120"},
		{75.5, "75.5"},
		{0, "0"},
		{1.25, "1.25"},
		{1e6, "1000000"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
		back, ok, err := ParseNumber(FormatNumber(tt.in))
		if err != nil || !ok || back != tt.in {
			t.Errorf("ParseNumber(FormatNumber(%v)) = %v, %v, %v", tt.in, back, ok, err)
		}
	}
}
