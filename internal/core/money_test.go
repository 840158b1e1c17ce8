package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"-12.34", -1234, true},
		{"+5", 500, true},
		{"0.05", 5, true},
		{"-0.05", -5, true},
		{"12.345", 1234, true}, // rounds down
		{"12.346", 1235, true}, // rounds up
		{"", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"-", 0, false},
		{"12a", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("%q: expected ok, got %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error, got %d", tc.in, got)
		}
		if tc.ok && got != tc.want {
			t.Fatalf("%q: expected %d cents, got %d", tc.in, tc.want, got)
		}
	}
}

func TestMoneyString(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{-1234, "-12.34"},
		{5, "0.05"},
		{-5, "-0.05"},
		{0, "0.00"},
		{100, "1.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).String(); got != tc.want {
			t.Fatalf("%d cents: expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
