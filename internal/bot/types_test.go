package bot

import (
	"testing"
	"time"
)

func TestMinutesPassed(t *testing.T) {
	now := time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)
	created := now.Add(-30 * time.Minute)

	if !minutesPassed(created, 30, now) {
		t.Fatal("expected exactly 30 minutes to count as passed")
	}
	if !minutesPassed(created, 29, now) {
		t.Fatal("expected 29 minutes to have passed")
	}
	if minutesPassed(created, 31, now) {
		t.Fatal("expected 31 minutes not to have passed")
	}
	if !minutesPassed(created, 0, now) {
		t.Fatal("zero minutes should always have passed for a real timestamp")
	}
}

func TestMinutesPassedZeroEntity(t *testing.T) {
	now := time.Date(2015, 3, 14, 12, 0, 0, 0, time.UTC)
	if minutesPassed(time.Time{}, 0, now) {
		t.Fatal("missing entity must never count as elapsed")
	}
	if minutesPassed(time.Time{}, 30, now) {
		t.Fatal("missing entity must never count as elapsed")
	}
}

func TestParseRoundTag(t *testing.T) {
	cases := []struct {
		flair string
		want  RoundTag
	}{
		{"", TagUnsolved},
		{"UNSOLVED", TagUnsolved},
		{"unsolved", TagUnsolved},
		{"Still UNSOLVED!", TagUnsolved},
		{"ROUND OVER", TagRoundOver},
		{"round over", TagRoundOver},
		{"ABANDONED", TagAbandoned},
		{"DEAD ROUND", TagAbandoned},
		{"dead round - mods", TagAbandoned},
		{"Meta", TagUnknown},
	}
	for _, tc := range cases {
		if got := ParseRoundTag(tc.flair); got != tc.want {
			t.Fatalf("ParseRoundTag(%q) = %v, want %v", tc.flair, got, tc.want)
		}
	}
}
