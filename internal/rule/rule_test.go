package rule

import (
	"strings"
	"testing"
	"time"
)

func TestParseDaily(t *testing.T) {
	r, err := Parse(TypeDaily, `{"participants":[1,2,3]}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	d, ok := r.(Daily)
	if !ok {
		t.Fatalf("got %T, want Daily", r)
	}
	if len(d.Participants) != 3 {
		t.Errorf("participants len = %d, want 3", len(d.Participants))
	}
}

func TestParseDailyEmptyConfig(t *testing.T) {
	for _, config := range []string{"", "{}"} {
		r, err := Parse(TypeDaily, config)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", config, err)
		}
		d := r.(Daily)
		if len(d.Participants) != 0 {
			t.Errorf("Parse(%q) participants = %v, want none", config, d.Participants)
		}
	}
}

func TestParseRepeating(t *testing.T) {
	r, err := Parse(TypeRepeating, `{"repeatDays":[1,5],"participants":[7]}`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	rep := r.(Repeating)
	want := []time.Weekday{time.Monday, time.Friday}
	if len(rep.RepeatDays) != 2 || rep.RepeatDays[0] != want[0] || rep.RepeatDays[1] != want[1] {
		t.Errorf("RepeatDays = %v, want %v", rep.RepeatDays, want)
	}
	if len(rep.Participants) != 1 || rep.Participants[0] != 7 {
		t.Errorf("Participants = %v, want [7]", rep.Participants)
	}
}

func TestParseRepeatingMissingDays(t *testing.T) {
	tests := []string{"", "{}", `{"repeatDays":[]}`, `{"participants":[1]}`}
	for _, config := range tests {
		if _, err := Parse(TypeRepeating, config); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", config)
		}
	}
}

func TestParseRepeatingInvalidWeekday(t *testing.T) {
	for _, config := range []string{`{"repeatDays":[7]}`, `{"repeatDays":[-1]}`} {
		if _, err := Parse(TypeRepeating, config); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", config)
		}
	}
}

func TestParseWeeklyRotation(t *testing.T) {
	tests := []struct {
		config string
		want   string
	}{
		{`{"rotationType":"oddEvenWeek","participants":[1,2]}`, RotationOddEvenWeek},
		{`{"rotationType":"alternating","participants":[1,2]}`, RotationAlternating},
	}
	for _, tt := range tests {
		r, err := Parse(TypeWeeklyRotation, tt.config)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.config, err)
		}
		wr := r.(WeeklyRotation)
		if wr.Rotation != tt.want {
			t.Errorf("Rotation = %q, want %q", wr.Rotation, tt.want)
		}
	}
}

func TestParseWeeklyRotationInvalid(t *testing.T) {
	tests := []struct {
		config  string
		wantMsg string
	}{
		{`{"rotationType":"oddEvenWeek"}`, "participants is required"},
		{`{"participants":[1,2]}`, "rotationType is required"},
		{`{"rotationType":"monthly","participants":[1]}`, "unknown rotation type"},
	}
	for _, tt := range tests {
		_, err := Parse(TypeWeeklyRotation, tt.config)
		if err == nil {
			t.Fatalf("Parse(%q): expected error, got nil", tt.config)
		}
		if !strings.Contains(err.Error(), tt.wantMsg) {
			t.Errorf("Parse(%q) error = %q, want containing %q", tt.config, err, tt.wantMsg)
		}
	}
}

func TestParseUnknownType(t *testing.T) {
	if _, err := Parse("monthly", "{}"); err == nil {
		t.Fatal("expected error for unknown rule type")
	}
}

func TestParseMalformedJSON(t *testing.T) {
	if _, err := Parse(TypeDaily, "{not json"); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestValidateSingle(t *testing.T) {
	if err := Validate(TypeSingle, ""); err != nil {
		t.Errorf("Validate(single, empty) = %v, want nil", err)
	}
	if err := Validate(TypeSingle, `{"participants":[1]}`); err != nil {
		t.Errorf("Validate(single, participants) = %v, want nil", err)
	}
	if err := Validate(TypeSingle, "{bad"); err == nil {
		t.Error("expected error for malformed single config")
	}
}
