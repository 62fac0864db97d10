package extract

import "testing"

func TestSanitizeDate(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string // "" means nil expected
	}{
		{"2026-02-01", "2026-02-01"},
		{"2026-02-01T18:00:00", "2026-02-01T18:00:00"}, // ISO passes through, time kept
		{"February 01, 2026", "2026-02-01"},
		{"Feb 1, 2026", "2026-02-01"},
		{"Sept 3, 2026", "2026-09-03"},
		{"March 1st, 2026", "2026-03-01"},
		{"3/5/2025", "2025-03-05"},
		{"01/01/99", "1999-01-01"},
		{"01/01/49", "2049-01-01"},
		{"5 March 2026", "2026-03-05"},
		{"2/30/2026", ""},   // impossible date
		{"13/1/2026", ""},   // impossible month
		{"soonish", ""},
		{"", ""},
		{42, ""},
		{"Jan 2 2026", "2026-01-02"},  // native layout within year gate
		{"Jan 2 1999", ""},            // native layout outside year gate
	}

	for _, c := range cases {
		got := SanitizeDate(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("SanitizeDate(%v) = %q, want nil", c.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("SanitizeDate(%v) = nil, want %q", c.in, c.want)
		} else if *got != c.want {
			t.Errorf("SanitizeDate(%v) = %q, want %q", c.in, *got, c.want)
		}
	}
}

func TestSanitizeTime(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"10am", "10:00"},
		{"10 AM", "10:00"},
		{"6:30 PM", "18:30"},
		{"12pm", "12:00"},
		{"12am", "00:00"},
		{"14:30", "14:30"},
		{"9:05", "09:05"},
		{"2026-02-01T00:00:00", ""},      // midnight placeholder dropped
		{"2026-02-01T14:30:00", "14:30"}, // real embedded time kept
		{"25:00", ""},
		{"noon", ""},
		{"", ""},
	}

	for _, c := range cases {
		got := SanitizeTime(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("SanitizeTime(%v) = %q, want nil", c.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("SanitizeTime(%v) = nil, want %q", c.in, c.want)
		} else if *got != c.want {
			t.Errorf("SanitizeTime(%v) = %q, want %q", c.in, *got, c.want)
		}
	}
}

func TestSanitizeState(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"Maine", "ME"},
		{"maine", "ME"},
		{"ME", "ME"},
		{"me", "ME"},
		{"District of Columbia", "DC"},
		{"Unknownland", "UN"}, // lossy two-letter fallback
		{"X", ""},
		{"", ""},
	}

	for _, c := range cases {
		got := SanitizeState(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("SanitizeState(%v) = %q, want nil", c.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("SanitizeState(%v) = nil, want %q", c.in, c.want)
		} else if *got != c.want {
			t.Errorf("SanitizeState(%v) = %q, want %q", c.in, *got, c.want)
		}
	}
}

func TestSanitizePrice(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		isNil bool
	}{
		{"$10.99 USD", 10.99, false},
		{"free", 0, false},
		{"FREE", 0, false},
		{"15", 15, false},
		{12.5, 12.5, false},
		{7, 7, false},
		{"-5", 0, true},
		{-1.0, 0, true},
		{"call us", 0, true},
		{"", 0, true},
	}

	for _, c := range cases {
		got := SanitizePrice(c.in)
		if c.isNil {
			if got != nil {
				t.Errorf("SanitizePrice(%v) = %v, want nil", c.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("SanitizePrice(%v) = nil, want %v", c.in, c.want)
		} else if *got != c.want {
			t.Errorf("SanitizePrice(%v) = %v, want %v", c.in, *got, c.want)
		}
	}
}

func TestSanitizeURL(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"https://example.com/tickets", "https://example.com/tickets"},
		{"https://example.com", "https://example.com/"}, // bare host gets a path
		{"http://example.com/a?b=c", "http://example.com/a?b=c"},
		{"/tickets", ""},    // relative rejected
		{"ftp://example.com/x", ""},
		{"not a url at all://", ""},
		{"", ""},
	}

	for _, c := range cases {
		got := SanitizeURL(c.in)
		if c.want == "" {
			if got != nil {
				t.Errorf("SanitizeURL(%v) = %q, want nil", c.in, *got)
			}
			continue
		}
		if got == nil {
			t.Errorf("SanitizeURL(%v) = nil, want %q", c.in, c.want)
		} else if *got != c.want {
			t.Errorf("SanitizeURL(%v) = %q, want %q", c.in, *got, c.want)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	if got := SanitizeText("  hello  "); got == nil || *got != "hello" {
		t.Errorf("expected trimmed text, got %v", got)
	}
	if got := SanitizeText("null"); got != nil {
		t.Errorf("literal null should drop, got %q", *got)
	}
	if got := SanitizeText("   "); got != nil {
		t.Errorf("whitespace should drop, got %q", *got)
	}
	if got := SanitizeText(7); got != nil {
		t.Errorf("non-string should drop, got %q", *got)
	}
}

func TestSanitizeBool(t *testing.T) {
	if got := SanitizeBool(true); got == nil || !*got {
		t.Error("expected true")
	}
	if got := SanitizeBool("yes"); got == nil || !*got {
		t.Error("expected yes -> true")
	}
	if got := SanitizeBool("False"); got == nil || *got {
		t.Error("expected False -> false")
	}
	if got := SanitizeBool("maybe"); got != nil {
		t.Error("expected maybe -> nil")
	}
}
