package models

import "testing"

func TestMapSeverityRating(t *testing.T) {
	cases := []struct {
		rating, want string
	}{
		{"9.0", "Critical"},
		{"9.1", "Critical"},
		{"10", "Critical"},
		{"8.99", "High"},
		{"7.0", "High"},
		{"6.99", "Medium"},
		{"4.0", "Medium"},
		{"3.99", "Low"},
		{"0.1", "Low"},
		{"0.0", "Info"},
		{"0", "Info"},
		{"-1", "Info"},
		{"high", "high"},
		{"N/A", "N/A"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MapSeverityRating(tc.rating); got != tc.want {
			t.Errorf("MapSeverityRating(%q) = %q, want %q", tc.rating, got, tc.want)
		}
	}
}
