package playback

import "testing"

func TestSourceResolver_Resolve(t *testing.T) {
	r := NewSourceResolver("http://nvr:5000/", "")

	got := r.Resolve("front", TimeRange{Start: 1000, End: 2000})
	want := "http://nvr:5000/vod/front/start/1000/end/2000/master.m3u8"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestSourceResolver_adds_trailing_slash(t *testing.T) {
	r := NewSourceResolver("http://nvr:5000", "")

	got := r.Resolve("back", TimeRange{Start: 5, End: 9})
	want := "http://nvr:5000/vod/back/start/5/end/9/master.m3u8"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

func TestSourceResolver_custom_format(t *testing.T) {
	r := NewSourceResolver("http://nvr:5000/", "mpd")

	got := r.Resolve("front", TimeRange{Start: 1, End: 2})
	want := "http://nvr:5000/vod/front/start/1/end/2/master.mpd"
	if got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}
}

// Resolution must be referentially transparent so callers can memoize.
func TestSourceResolver_deterministic(t *testing.T) {
	r := NewSourceResolver("http://nvr:5000/", "")
	rng := TimeRange{Start: 1000, End: 2000}

	if r.Resolve("front", rng) != r.Resolve("front", rng) {
		t.Error("identical inputs produced different locators")
	}
}

func TestTimeRange_Valid(t *testing.T) {
	if !(TimeRange{Start: 1, End: 2}).Valid() {
		t.Error("1..2 should be valid")
	}
	if !(TimeRange{Start: 2, End: 2}).Valid() {
		t.Error("2..2 should be valid")
	}
	if (TimeRange{Start: 3, End: 2}).Valid() {
		t.Error("3..2 should be invalid")
	}
}
