package statbank

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestEncodeDecodeDate_RoundTrip(t *testing.T) {
	start := day("2020-02-26")
	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		id := EncodeDate(d)
		got, err := DecodeDate(id)
		if err != nil {
			t.Fatalf("DecodeDate(%q): %v", id, err)
		}
		if !got.Equal(d) {
			t.Fatalf("round trip %s -> %q -> %s", d, id, got)
		}
	}
	if id := EncodeDate(day("2021-03-06")); id != "2021M03D06" {
		t.Fatalf("EncodeDate = %q", id)
	}
}

func TestDecodeDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2021-03-06", "2021M13D01", "2021M02D30", "2021K03"} {
		if _, err := DecodeDate(s); err == nil {
			t.Errorf("DecodeDate(%q) should fail", s)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	got, err := DisplayDate("2021M03D09")
	if err != nil || got != "2021-03-09" {
		t.Fatalf("DisplayDate = %q, %v", got, err)
	}
}

func TestResolveDates_SkipsGaps(t *testing.T) {
	valid := []string{"2021M03D06", "2021M03D07", "2021M03D09"}
	got := ResolveDates(day("2021-03-06"), day("2021-03-09"), valid)
	want := []string{"2021M03D06", "2021M03D07", "2021M03D09"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestResolveDates_Properties(t *testing.T) {
	// Thursdays only, plus a few scattered days, listed out of order.
	var valid []string
	for d := day("2020-06-04"); d.Before(day("2021-06-01")); d = d.AddDate(0, 0, 7) {
		valid = append(valid, EncodeDate(d))
	}
	valid = append([]string{"2021M01D01", "2020M12D24", "2021M01D01"}, valid...)

	ranges := [][2]string{
		{"2020-01-01", "2022-01-01"},
		{"2020-12-20", "2021-01-10"},
		{"2021-03-05", "2021-03-05"},
		{"2021-03-04", "2021-03-04"},
		{"2021-05-01", "2021-04-01"},
	}
	for _, r := range ranges {
		start, end := day(r[0]), day(r[1])
		got := ResolveDates(start, end, valid)
		again := ResolveDates(start, end, valid)
		if len(got) != len(again) {
			t.Fatalf("%v: not stable across calls", r)
		}
		validSet := map[string]bool{}
		for _, v := range valid {
			validSet[v] = true
		}
		var prev time.Time
		for i, id := range got {
			if again[i] != id {
				t.Fatalf("%v: not stable across calls", r)
			}
			if !validSet[id] {
				t.Fatalf("%v: %s not in validDates", r, id)
			}
			d, err := DecodeDate(id)
			if err != nil {
				t.Fatal(err)
			}
			if d.Before(start) || d.After(end) {
				t.Fatalf("%v: %s outside range", r, id)
			}
			if i > 0 && !d.After(prev) {
				t.Fatalf("%v: not strictly ascending at %s", r, id)
			}
			prev = d
		}
	}

	if got := ResolveDates(day("2021-03-04"), day("2021-03-04"), valid); len(got) != 1 {
		t.Fatalf("single valid day: %v", got)
	}
	if got := ResolveDates(day("2021-05-01"), day("2021-04-01"), valid); got == nil || len(got) != 0 {
		t.Fatalf("reversed range should be empty and non-nil: %#v", got)
	}
}

func TestResolveDates_IgnoresTimeOfDay(t *testing.T) {
	valid := []string{"2021M03D06", "2021M03D07"}
	start := time.Date(2021, 3, 6, 23, 30, 0, 0, time.UTC)
	end := time.Date(2021, 3, 7, 0, 1, 0, 0, time.UTC)
	if got := ResolveDates(start, end, valid); len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}
