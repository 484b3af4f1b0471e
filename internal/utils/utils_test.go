package utils

import (
	"testing"
	"time"
)

func TestFormatAmount(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -25000: "-25,000"}
	for in, want := range cases {
		if got := FormatAmount(in); got != want {
			t.Fatalf("FormatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSafeFilenamePart(t *testing.T) {
	if got := SafeFilenamePart(" Ana Lima/2 "); got != "Ana_Lima_2" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SafeFilenamePart(""); got != "NA" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestParseDateIsUTC(t *testing.T) {
	d, err := ParseDate("2030-05-01")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.Location() != time.UTC || d.Day() != 1 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("01/05/2030"); err == nil {
		t.Fatalf("expected error for bad layout")
	}
	if got := FormatDateTime(d.Add(90 * time.Minute)); got != "2030-05-01 01:30" {
		t.Fatalf("unexpected %q", got)
	}
}
