package main

import "testing"

func TestSkipsOpen(t *testing.T) {
	tests := []struct {
		command string
		want    bool
	}{
		{"init", true},
		{"doctor", true},
		{"keyring set <secret>", true},
		{"keyring status", true},
		{"debug path", true},
		{"debug dump", false},
		{"tui", false},
		{"show", false},
		{"set <day> <hour>", false},
		{"backup create", false},
		{"serve", false},
	}
	for _, tt := range tests {
		if got := skipsOpen(tt.command); got != tt.want {
			t.Errorf("skipsOpen(%q) = %v, want %v", tt.command, got, tt.want)
		}
	}
}
