package recurrence

import (
	"encoding/json"
	"testing"
	"time"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datesEqual(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d dates %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("dates[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		wantErr bool
	}{
		{"none", Rule{Kind: None}, false},
		{"daily", Rule{Kind: Daily}, false},
		{"weekly", Rule{Kind: Weekly, Weekday: time.Monday}, false},
		{"monthly", Rule{Kind: Monthly, DayOfMonth: 15}, false},
		{"specific days", Rule{Kind: SpecificDays, Days: []time.Weekday{time.Monday, time.Friday}}, false},
		{"monthly day zero", Rule{Kind: Monthly}, true},
		{"monthly day 32", Rule{Kind: Monthly, DayOfMonth: 32}, true},
		{"specific days empty", Rule{Kind: SpecificDays}, true},
		{"specific days out of range", Rule{Kind: SpecificDays, Days: []time.Weekday{7}}, true},
		{"unknown kind", Rule{Kind: "hourly"}, true},
	}

	for _, tt := range tests {
		err := tt.rule.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestRuleJSONRoundTrip(t *testing.T) {
	rules := []Rule{
		{Kind: None},
		{Kind: Daily},
		{Kind: Weekly, Weekday: time.Wednesday},
		{Kind: Monthly, DayOfMonth: 31},
		{Kind: SpecificDays, Days: []time.Weekday{time.Monday, time.Thursday}},
	}

	for _, r := range rules {
		blob, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("marshal %+v: %v", r, err)
		}
		var back Rule
		if err := json.Unmarshal(blob, &back); err != nil {
			t.Fatalf("unmarshal %s: %v", blob, err)
		}
		if back.Kind != r.Kind || back.Weekday != r.Weekday || back.DayOfMonth != r.DayOfMonth || len(back.Days) != len(r.Days) {
			t.Errorf("round trip %+v -> %+v", r, back)
		}
	}
}

func TestRuleJSONRejectsInvalid(t *testing.T) {
	inputs := []string{
		`{"type":"weekly"}`,
		`{"type":"weekly","day_of_week":9}`,
		`{"type":"monthly"}`,
		`{"type":"monthly","day_of_month":0}`,
		`{"type":"specific_days"}`,
		`{"type":"hourly"}`,
	}

	for _, input := range inputs {
		var r Rule
		if err := json.Unmarshal([]byte(input), &r); err == nil {
			t.Errorf("unmarshal %s should error", input)
		}
	}
}

func TestRuleJSONNull(t *testing.T) {
	var r Rule
	if err := json.Unmarshal([]byte("null"), &r); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if r.Kind != None {
		t.Errorf("Kind = %q, want none", r.Kind)
	}
}

func TestDatesOneOff(t *testing.T) {
	due := d(2024, 3, 15)

	got := Dates(Rule{Kind: None}, due, nil, nil, d(2024, 3, 1), d(2024, 3, 31))
	datesEqual(t, got, due)

	// Outside the queried range
	got = Dates(Rule{Kind: None}, due, nil, nil, d(2024, 4, 1), d(2024, 4, 30))
	datesEqual(t, got)
}

func TestDatesOneOffEarlyStart(t *testing.T) {
	due := d(2024, 3, 15)
	early := d(2024, 3, 10)

	got := Dates(Rule{Kind: None}, due, nil, &early, d(2024, 3, 1), d(2024, 3, 31))
	datesEqual(t, got, early)

	// Early start on or after the due date has no effect
	late := d(2024, 3, 20)
	got = Dates(Rule{Kind: None}, due, nil, &late, d(2024, 3, 1), d(2024, 3, 31))
	datesEqual(t, got, due)
}

func TestDatesDaily(t *testing.T) {
	due := d(2024, 3, 3)

	got := Dates(Rule{Kind: Daily}, due, nil, nil, d(2024, 3, 1), d(2024, 3, 5))
	datesEqual(t, got, d(2024, 3, 3), d(2024, 3, 4), d(2024, 3, 5))
}

func TestDatesDailyWithEnd(t *testing.T) {
	due := d(2024, 3, 1)
	end := d(2024, 3, 3)

	got := Dates(Rule{Kind: Daily}, due, &end, nil, d(2024, 3, 1), d(2024, 3, 10))
	datesEqual(t, got, d(2024, 3, 1), d(2024, 3, 2), d(2024, 3, 3))
}

func TestDatesEndBeforeDue(t *testing.T) {
	due := d(2024, 3, 10)
	end := d(2024, 3, 5)

	got := Dates(Rule{Kind: Daily}, due, &end, nil, d(2024, 3, 1), d(2024, 3, 31))
	datesEqual(t, got)
}

func TestDatesWeekly(t *testing.T) {
	// 2024-03-01 is a Friday
	due := d(2024, 3, 1)

	got := Dates(Rule{Kind: Weekly, Weekday: time.Monday}, due, nil, nil, d(2024, 3, 1), d(2024, 3, 14))
	datesEqual(t, got, d(2024, 3, 4), d(2024, 3, 11))
}

func TestDatesWeeklyStartsNoEarlierThanDue(t *testing.T) {
	due := d(2024, 3, 6)

	got := Dates(Rule{Kind: Weekly, Weekday: time.Monday}, due, nil, nil, d(2024, 3, 1), d(2024, 3, 14))
	datesEqual(t, got, d(2024, 3, 11))
}

func TestDatesMonthly(t *testing.T) {
	due := d(2024, 1, 1)

	got := Dates(Rule{Kind: Monthly, DayOfMonth: 15}, due, nil, nil, d(2024, 1, 1), d(2024, 3, 31))
	datesEqual(t, got, d(2024, 1, 15), d(2024, 2, 15), d(2024, 3, 15))
}

func TestDatesMonthlySkipsShortMonths(t *testing.T) {
	due := d(2024, 1, 1)

	// Day 31 exists in January and March but not February
	got := Dates(Rule{Kind: Monthly, DayOfMonth: 31}, due, nil, nil, d(2024, 1, 1), d(2024, 3, 31))
	datesEqual(t, got, d(2024, 1, 31), d(2024, 3, 31))
}

func TestDatesSpecificDays(t *testing.T) {
	due := d(2024, 3, 1)
	rule := Rule{Kind: SpecificDays, Days: []time.Weekday{time.Saturday, time.Sunday}}

	got := Dates(rule, due, nil, nil, d(2024, 3, 1), d(2024, 3, 10))
	datesEqual(t, got, d(2024, 3, 2), d(2024, 3, 3), d(2024, 3, 9), d(2024, 3, 10))
}

func TestDatesZeroLengthRange(t *testing.T) {
	due := d(2024, 3, 1)

	got := Dates(Rule{Kind: Daily}, due, nil, nil, d(2024, 3, 5), d(2024, 3, 5))
	datesEqual(t, got, d(2024, 3, 5))
}

func TestDatesInvertedRange(t *testing.T) {
	due := d(2024, 3, 1)

	got := Dates(Rule{Kind: Daily}, due, nil, nil, d(2024, 3, 10), d(2024, 3, 5))
	datesEqual(t, got)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		rule Rule
		want string
	}{
		{Rule{Kind: None}, "Does not repeat"},
		{Rule{Kind: Daily}, "Repeats daily"},
		{Rule{Kind: Weekly, Weekday: time.Monday}, "Repeats weekly on Monday"},
		{Rule{Kind: Monthly, DayOfMonth: 3}, "Repeats monthly on day 3"},
	}

	for _, tt := range tests {
		if got := tt.rule.Describe(); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
