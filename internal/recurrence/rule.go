package recurrence

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind discriminates the recurrence variants. The zero value is None,
// so a definition without a rule is a one-off chore.
type Kind string

const (
	None         Kind = "none"
	Daily        Kind = "daily"
	Weekly       Kind = "weekly"
	Monthly      Kind = "monthly"
	SpecificDays Kind = "specific_days"
)

// Rule describes how a chore definition repeats.
//
// Weekday is meaningful only for Weekly, DayOfMonth only for Monthly,
// and Days only for SpecificDays. Validate enforces this.
type Rule struct {
	Kind       Kind
	Weekday    time.Weekday
	DayOfMonth int
	Days       []time.Weekday
}

type ruleJSON struct {
	Type       string `json:"type"`
	DayOfWeek  *int   `json:"day_of_week,omitempty"`
	DayOfMonth *int   `json:"day_of_month,omitempty"`
	Days       []int  `json:"days,omitempty"`
}

// Validate rejects malformed rules: unknown kinds, out-of-range day
// values, and payloads that don't match the variant.
func (r Rule) Validate() error {
	switch r.Kind {
	case "", None, Daily:
		// The zero value counts as None.
		return nil
	case Weekly:
		if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
			return fmt.Errorf("weekly rule: day of week %d out of range 0-6", r.Weekday)
		}
		return nil
	case Monthly:
		if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
			return fmt.Errorf("monthly rule: day of month %d out of range 1-31", r.DayOfMonth)
		}
		return nil
	case SpecificDays:
		if len(r.Days) == 0 {
			return fmt.Errorf("specific_days rule: empty day set")
		}
		for _, d := range r.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("specific_days rule: day of week %d out of range 0-6", d)
			}
		}
		return nil
	}
	return fmt.Errorf("unknown recurrence type %q", r.Kind)
}

// IsRecurring reports whether the rule produces more than a single
// occurrence.
func (r Rule) IsRecurring() bool {
	return r.Kind != None && r.Kind != ""
}

// matches reports whether date belongs to the rule's repeating pattern.
// Range and start/end clipping is the caller's concern.
func (r Rule) matches(date time.Time) bool {
	switch r.Kind {
	case Daily:
		return true
	case Weekly:
		return date.Weekday() == r.Weekday
	case Monthly:
		return date.Day() == r.DayOfMonth
	case SpecificDays:
		for _, d := range r.Days {
			if date.Weekday() == d {
				return true
			}
		}
	}
	return false
}

// MarshalJSON encodes the rule as a tagged object, e.g.
// {"type":"weekly","day_of_week":1}.
func (r Rule) MarshalJSON() ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	out := ruleJSON{Type: string(r.Kind)}
	if r.Kind == "" {
		out.Type = string(None)
	}
	switch r.Kind {
	case Weekly:
		d := int(r.Weekday)
		out.DayOfWeek = &d
	case Monthly:
		d := r.DayOfMonth
		out.DayOfMonth = &d
	case SpecificDays:
		for _, d := range r.Days {
			out.Days = append(out.Days, int(d))
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes and validates a tagged rule object. A JSON null
// decodes to the None rule.
func (r *Rule) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rule{Kind: None}
		return nil
	}
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode recurrence rule: %w", err)
	}
	out := Rule{Kind: Kind(in.Type)}
	if in.Type == "" {
		out.Kind = None
	}
	switch out.Kind {
	case Weekly:
		if in.DayOfWeek == nil {
			return fmt.Errorf("weekly rule: day_of_week is required")
		}
		out.Weekday = time.Weekday(*in.DayOfWeek)
	case Monthly:
		if in.DayOfMonth == nil {
			return fmt.Errorf("monthly rule: day_of_month is required")
		}
		out.DayOfMonth = *in.DayOfMonth
	case SpecificDays:
		for _, d := range in.Days {
			out.Days = append(out.Days, time.Weekday(d))
		}
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Describe returns a human-readable description of the rule.
func (r Rule) Describe() string {
	switch r.Kind {
	case Daily:
		return "Repeats daily"
	case Weekly:
		return "Repeats weekly on " + r.Weekday.String()
	case Monthly:
		return fmt.Sprintf("Repeats monthly on day %d", r.DayOfMonth)
	case SpecificDays:
		s := "Repeats on"
		for i, d := range r.Days {
			if i > 0 {
				s += ","
			}
			s += " " + d.String()[:3]
		}
		return s
	}
	return "Does not repeat"
}
