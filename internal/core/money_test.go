package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{".5", 50, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"450", 45000, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{".", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		m    Money
		want string
	}{
		{Money{Cents: 45000}, "₹450.00"},
		{Money{Cents: 5}, "₹0.05"},
		{Money{Cents: -1250}, "-₹12.50"},
	}
	for _, tc := range cases {
		if got := tc.m.Format("₹"); got != tc.want {
			t.Fatalf("Format(%d) = %q, want %q", tc.m.Cents, got, tc.want)
		}
	}
	if Units(3).Add(Money{Cents: 50}).Sub(Money{Cents: 25}).Cents != 325 {
		t.Fatalf("unexpected arithmetic")
	}
}

func TestMoneyJSON(t *testing.T) {
	for _, in := range []string{`-450`, `"-450.00"`} {
		var m Money
		if err := m.UnmarshalJSON([]byte(in)); err != nil || m.Cents != -45000 {
			t.Fatalf("UnmarshalJSON(%s) = %d, %v", in, m.Cents, err)
		}
		out, _ := m.MarshalJSON()
		if string(out) != "-450" {
			t.Fatalf("MarshalJSON = %s", out)
		}
	}
	var m Money
	if err := m.UnmarshalJSON([]byte(`"--1"`)); err == nil {
		t.Fatal("expected error for double sign")
	}
}
