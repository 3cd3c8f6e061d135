package phone

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"local saudi mobile", "0501234567", "SA", "+966501234567"},
		{"already e164", "+966501234567", "SA", "+966501234567"},
		{"with spaces", " 050 123 4567 ", "SA", "+966501234567"},
		{"empty", "", "SA", ""},
		{"garbage passes through", "not-a-number", "SA", "not-a-number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw, tt.region); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
