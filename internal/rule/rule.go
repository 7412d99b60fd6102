package rule

import (
	"encoding/json"
	"fmt"
	"time"
)

// Rule type names as stored on tasks. Single tasks are claimed through the
// accept/decline workflow and are never expanded by the generation engine.
const (
	TypeDaily          = "daily"
	TypeRepeating      = "repeating"
	TypeWeeklyRotation = "weeklyRotation"
	TypeSingle         = "single"
)

// Rotation types for weeklyRotation tasks.
const (
	RotationOddEvenWeek = "oddEvenWeek"
	RotationAlternating = "alternating"
)

// Rule is the parsed, shape-checked form of a task's rule configuration.
// Exactly one concrete type exists per rule type.
type Rule interface {
	Type() string
}

// Daily expands to one assignment per date. With participants, dates rotate
// through the list in order; without, assignments are household-wide.
type Daily struct {
	Participants []int64
}

func (Daily) Type() string { return TypeDaily }

// Repeating expands only on the configured weekdays (0=Sunday..6=Saturday),
// rotating through participants by occurrence rather than by date.
type Repeating struct {
	RepeatDays   []time.Weekday
	Participants []int64
}

func (Repeating) Type() string { return TypeRepeating }

// WeeklyRotation assigns one participant to the whole generation window,
// chosen by ISO week parity or by advancing from the last recorded assignment.
type WeeklyRotation struct {
	Rotation     string
	Participants []int64
}

func (WeeklyRotation) Type() string { return TypeWeeklyRotation }

// rawConfig is the superset of fields a rule_config JSON document may carry.
type rawConfig struct {
	Participants []int64 `json:"participants"`
	RepeatDays   []int   `json:"repeatDays"`
	RotationType string  `json:"rotationType"`
}

// Parse decodes and validates a task's rule configuration against its rule
// type. A missing required field is an error; extra fields are ignored.
func Parse(ruleType string, config string) (Rule, error) {
	var raw rawConfig
	if config != "" {
		if err := json.Unmarshal([]byte(config), &raw); err != nil {
			return nil, fmt.Errorf("invalid rule config: %w", err)
		}
	}

	switch ruleType {
	case TypeDaily:
		return Daily{Participants: raw.Participants}, nil

	case TypeRepeating:
		if len(raw.RepeatDays) == 0 {
			return nil, fmt.Errorf("repeatDays is required")
		}
		days := make([]time.Weekday, 0, len(raw.RepeatDays))
		for _, d := range raw.RepeatDays {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("invalid weekday %d", d)
			}
			days = append(days, time.Weekday(d))
		}
		return Repeating{RepeatDays: days, Participants: raw.Participants}, nil

	case TypeWeeklyRotation:
		if len(raw.Participants) == 0 {
			return nil, fmt.Errorf("participants is required")
		}
		switch raw.RotationType {
		case RotationOddEvenWeek, RotationAlternating:
		case "":
			return nil, fmt.Errorf("rotationType is required")
		default:
			return nil, fmt.Errorf("unknown rotation type %q", raw.RotationType)
		}
		return WeeklyRotation{Rotation: raw.RotationType, Participants: raw.Participants}, nil
	}

	return nil, fmt.Errorf("unknown rule type %q", ruleType)
}

// Validate checks a rule type and config pair without keeping the result.
// Used by the task handlers so malformed rules are rejected at write time.
func Validate(ruleType string, config string) error {
	if ruleType == TypeSingle {
		var raw rawConfig
		if config == "" {
			return nil
		}
		if err := json.Unmarshal([]byte(config), &raw); err != nil {
			return fmt.Errorf("invalid rule config: %w", err)
		}
		return nil
	}
	_, err := Parse(ruleType, config)
	return err
}
