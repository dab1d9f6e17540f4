package domain

import (
	"errors"
	"io"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestUserProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		field   string
	}{
		{"valid adult", UserProfile{Age: 35, GenderEnc: 1, ParentEnc: 1}, ""},
		{"bounds", UserProfile{Age: 120, GenderEnc: 2, ParentEnc: 0, ConcernScore: intPtr(10)}, ""},
		{"zero concern", UserProfile{Age: 1, GenderEnc: 0, ParentEnc: 0, ConcernScore: intPtr(0)}, ""},
		{"age zero", UserProfile{Age: 0, GenderEnc: 1}, "age"},
		{"age too high", UserProfile{Age: 121, GenderEnc: 1}, "age"},
		{"gender", UserProfile{Age: 30, GenderEnc: 3}, "gender_enc"},
		{"parent", UserProfile{Age: 30, ParentEnc: -1}, "parent_enc"},
		{"concern", UserProfile{Age: 30, ConcernScore: intPtr(11)}, "concern_score"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Field = %q, want %q", ve.Field, tt.field)
			}
		})
	}
}

func TestErrorsUnwrap(t *testing.T) {
	tue := &TelemetryUnavailableError{Source: "weather", Reason: "request failed", Err: io.ErrUnexpectedEOF}
	if !errors.Is(tue, io.ErrUnexpectedEOF) {
		t.Error("TelemetryUnavailableError does not unwrap")
	}
	if got, want := tue.Error(), "telemetry weather unavailable: request failed: unexpected EOF"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	mue := &ModelUnavailableError{Model: "health risk"}
	if got, want := mue.Error(), "health risk model unavailable"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNewTemporalContext(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		month, day int
	}{
		{"afternoon", time.Date(2025, time.November, 4, 9, 0, 0, 0, time.UTC), 11, 4},
		{"before IST midnight", time.Date(2025, time.November, 4, 18, 29, 0, 0, time.UTC), 11, 4},
		{"after IST midnight", time.Date(2025, time.November, 4, 18, 30, 0, 0, time.UTC), 11, 5},
		{"new year in Delhi", time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC), 1, 1},
		{"host in another zone", time.Date(2025, time.November, 4, 23, 0, 0, 0, time.FixedZone("PST", -8*3600)), 11, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTemporalContext(tt.now)
			if tc.Month != tt.month || tc.Day != tt.day || tc.IsFestive != 0 {
				t.Errorf("TemporalContext = %+v, want month %d day %d", tc, tt.month, tt.day)
			}
		})
	}
}
