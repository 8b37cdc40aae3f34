package validate

import (
	"math"
	"testing"
)

func TestPhone(t *testing.T) {
	valid := []string{
		"+593999999999",
		"+1234567890",        // exactly 10 digits
		"+123456789012345",   // exactly 15 digits
	}
	for _, s := range valid {
		if !Phone(s) {
			t.Errorf("Phone(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"593999999999",       // missing '+'
		"+123456789",         // 9 digits, too short
		"+1234567890123456",  // 16 digits, too long
		"+59399a999999",      // letter
		"+593 999999999",     // space
		"++593999999999",
		"+593999999999 ",
	}
	for _, s := range invalid {
		if Phone(s) {
			t.Errorf("Phone(%q) = true, want false", s)
		}
	}
}

func TestEmail(t *testing.T) {
	valid := []string{
		"maria@example.com",
		"a@b.co",
		"user.name+tag@sub.domain.org",
	}
	for _, s := range valid {
		if !Email(s) {
			t.Errorf("Email(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@nodot",
		"user name@example.com",
		"user@exa mple.com",
		"user@@example.com",
	}
	for _, s := range invalid {
		if Email(s) {
			t.Errorf("Email(%q) = true, want false", s)
		}
	}
}

func TestTimeFormat(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"00:00", true},
		{"09:00", true},
		{"23:59", true},
		{"24:00", false},
		{"25:00", false},
		{"12:60", false},
		{"9:00", false}, // must be zero-padded
		{"12:5", false},
		{"12-30", false},
		{"", false},
		{"aa:bb", false},
	}
	for _, tc := range cases {
		if got := TimeFormat(tc.in); got != tc.want {
			t.Errorf("TimeFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithinBusinessHours(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		in   string
		want bool
	}{
		{"08:00", true},
		{"09:00", true},
		{"18:00", true}, // inclusive upper boundary
		{"18:59", true}, // hour component is what matters
		{"07:59", false},
		{"19:00", false},
		{"23:00", false},
		{"25:00", false}, // malformed fails closed
		{"", false},
	}
	for _, tc := range cases {
		if got := r.WithinBusinessHours(tc.in); got != tc.want {
			t.Errorf("WithinBusinessHours(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithinBusinessHours_CustomBounds(t *testing.T) {
	r := Rules{HourStart: 10, HourEnd: 14, MinAmount: 0, MaxAmount: 1000}

	if r.WithinBusinessHours("09:30") {
		t.Error("09:30 should be outside [10,14]")
	}
	if !r.WithinBusinessHours("10:00") {
		t.Error("10:00 should be inside [10,14]")
	}
	if !r.WithinBusinessHours("14:45") {
		t.Error("14:45 should be inside [10,14]")
	}
	if r.WithinBusinessHours("15:00") {
		t.Error("15:00 should be outside [10,14]")
	}
}

func TestAmount(t *testing.T) {
	r := DefaultRules()

	cases := []struct {
		in   float64
		want bool
	}{
		{50, true},
		{0.01, true},
		{1000, true}, // ceiling inclusive
		{0, false},
		{-10, false},
		{10000, false},
		{1000.01, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tc := range cases {
		if got := r.Amount(tc.in); got != tc.want {
			t.Errorf("Amount(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAmount_CustomCeiling(t *testing.T) {
	r := Rules{MinAmount: 10, MaxAmount: 100, HourStart: 8, HourEnd: 18}

	if r.Amount(10) {
		t.Error("floor is exclusive; 10 should be invalid")
	}
	if !r.Amount(10.5) {
		t.Error("10.5 should be valid")
	}
	if !r.Amount(100) {
		t.Error("ceiling is inclusive; 100 should be valid")
	}
	if r.Amount(101) {
		t.Error("101 should be invalid")
	}
}
