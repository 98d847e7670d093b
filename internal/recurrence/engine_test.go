package recurrence

import (
	"errors"
	"slices"
	"testing"

	"github.com/example/resama/internal/domain"
)

func days(occurrences []Occurrence) []string {
	out := make([]string, len(occurrences))
	for i, o := range occurrences {
		out[i] = o.Day.String()
	}
	return out
}

func TestEngine_Expand(t *testing.T) {
	t.Parallel()

	engine := NewEngine(0)
	start := domain.MustClockTime("08:00")
	end := domain.MustClockTime("10:00")
	wednesday := domain.NewDate(2025, 3, 12)

	t.Run("weekly defaults to the first day's weekday", func(t *testing.T) {
		t.Parallel()

		got, err := engine.Expand(Rule{Frequency: FrequencyWeekly, StartsOn: wednesday, EndsOn: wednesday.AddDays(21)}, start, end)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		want := []string{"2025-03-12", "2025-03-19", "2025-03-26", "2025-04-02"}
		if !slices.Equal(days(got), want) {
			t.Fatalf("expected %v, got %v", want, days(got))
		}
		if got[0].Start != start || got[0].End != end {
			t.Fatalf("expected slot to be copied, got %+v", got[0])
		}
	})

	t.Run("respects weekday selections", func(t *testing.T) {
		t.Parallel()

		rule := Rule{
			Frequency: FrequencyWeekly,
			Weekdays:  []domain.Weekday{domain.Monday, domain.Friday},
			StartsOn:  wednesday,
			EndsOn:    wednesday.AddDays(7),
		}
		got, err := engine.Expand(rule, start, end)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		want := []string{"2025-03-14", "2025-03-17"}
		if !slices.Equal(days(got), want) {
			t.Fatalf("expected %v, got %v", want, days(got))
		}
	})

	t.Run("daily skips the weekend", func(t *testing.T) {
		t.Parallel()

		got, err := engine.Expand(Rule{Frequency: FrequencyDaily, StartsOn: wednesday, EndsOn: wednesday.AddDays(5)}, start, end)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		want := []string{"2025-03-12", "2025-03-13", "2025-03-14", "2025-03-17"}
		if !slices.Equal(days(got), want) {
			t.Fatalf("expected %v, got %v", want, days(got))
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name    string
			rule    Rule
			start   domain.ClockTime
			wantErr error
		}{
			{name: "frequency", rule: Rule{StartsOn: wednesday, EndsOn: wednesday}, start: start, wantErr: ErrInvalidFrequency},
			{name: "no end", rule: Rule{Frequency: FrequencyDaily, StartsOn: wednesday}, start: start, wantErr: ErrInvalidWindow},
			{name: "reversed window", rule: Rule{Frequency: FrequencyDaily, StartsOn: wednesday, EndsOn: wednesday.AddDays(-1)}, start: start, wantErr: ErrInvalidWindow},
			{name: "empty slot", rule: Rule{Frequency: FrequencyDaily, StartsOn: wednesday, EndsOn: wednesday}, start: end, wantErr: ErrInvalidDuration},
		}
		for _, tc := range cases {
			if _, err := engine.Expand(tc.rule, tc.start, end); !errors.Is(err, tc.wantErr) {
				t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
			}
		}
	})

	t.Run("caps the series", func(t *testing.T) {
		t.Parallel()

		small := NewEngine(2)
		if _, err := small.Expand(Rule{Frequency: FrequencyDaily, StartsOn: wednesday, EndsOn: wednesday.AddDays(2)}, start, end); !errors.Is(err, ErrTooManyOccurrences) {
			t.Fatalf("expected ErrTooManyOccurrences, got %v", err)
		}
	})
}

func TestParseFrequency(t *testing.T) {
	for input, want := range map[string]Frequency{"weekly": FrequencyWeekly, "quotidien": FrequencyDaily} {
		got, err := ParseFrequency(input)
		if err != nil || got != want {
			t.Fatalf("ParseFrequency(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseFrequency("monthly"); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got %v", err)
	}
}
