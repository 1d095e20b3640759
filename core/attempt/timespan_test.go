package attempt

import (
	"testing"
	"time"
)

func TestParseTimespan(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "zero", in: "00:00:00", want: 0},
		{name: "basic", in: "01:30:15", want: time.Hour + 30*time.Minute + 15*time.Second},
		{name: "four hour digits", in: "1000:00:00", want: 1000 * time.Hour},
		{name: "one centisecond digit", in: "00:00:01.5", want: time.Second + 500*time.Millisecond},
		{name: "two centisecond digits", in: "00:00:01.25", want: time.Second + 250*time.Millisecond},
		{name: "empty", in: "", wantErr: true},
		{name: "single hour digit", in: "1:00:00", wantErr: true},
		{name: "minutes overflow", in: "00:60:00", wantErr: true},
		{name: "seconds overflow", in: "00:00:60", wantErr: true},
		{name: "too many fraction digits", in: "00:00:00.123", wantErr: true},
		{name: "garbage", in: "lol", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimespan(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimespan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTimespan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTimespan(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want string
	}{
		{name: "zero", in: 0, want: "00:00:00"},
		{name: "basic", in: time.Hour + 30*time.Minute + 15*time.Second, want: "01:30:15"},
		{name: "fraction rounded", in: 90*time.Minute + 500*time.Millisecond, want: "01:30:01"},
		{name: "big", in: 100 * time.Hour, want: "100:00:00"},
		{name: "negative clamped", in: -time.Minute, want: "00:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimespan(tt.in); got != tt.want {
				t.Errorf("FormatTimespan() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimespanRoundTrip(t *testing.T) {
	d, err := ParseTimespan("12:34:56")
	if err != nil {
		t.Fatalf("ParseTimespan(): %v", err)
	}
	if got := FormatTimespan(d); got != "12:34:56" {
		t.Errorf("FormatTimespan() = %v, want 12:34:56", got)
	}
}
