package config

import "testing"

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{name: "unset", value: "", want: 42},
		{name: "valid", value: "7", want: 7},
		{name: "malformed_falls_back", value: "seven", want: 42},
		{name: "trailing_junk_falls_back", value: "7s", want: 42},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("CONFIG_TEST_INT", tt.value)
			}

			if got := getEnvInt("CONFIG_TEST_INT", 42); got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example , ,https://b.example ")

	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("got %v", got)
	}

	if splitList("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
