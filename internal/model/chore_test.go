package model

import (
	"testing"
	"time"
)

func TestInstanceID(t *testing.T) {
	date := time.Date(2024, 3, 5, 18, 30, 0, 0, time.FixedZone("PST", -8*3600))
	got := InstanceID("def-1", date)
	// 18:30 PST is already March 6 in UTC.
	if got != "def-1_2024-03-06" {
		t.Errorf("InstanceID = %q", got)
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 5, 23, 59, 59, 0, time.UTC)
	got := DateOnly(in)
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly = %v, want %v", got, want)
	}
}

func TestEffectiveRewardCents(t *testing.T) {
	defAmount := int64(100)
	override := int64(250)
	def := &ChoreDefinition{RewardCents: &defAmount}

	inst := &ChoreInstance{}
	if got := inst.EffectiveRewardCents(def); got == nil || *got != 100 {
		t.Errorf("without override = %v, want 100", got)
	}

	inst.OverriddenRewardCents = &override
	if got := inst.EffectiveRewardCents(def); got == nil || *got != 250 {
		t.Errorf("with override = %v, want 250", got)
	}

	bare := &ChoreInstance{}
	if got := bare.EffectiveRewardCents(&ChoreDefinition{}); got != nil {
		t.Errorf("no amounts = %v, want nil", got)
	}
	if got := bare.EffectiveRewardCents(nil); got != nil {
		t.Errorf("nil definition = %v, want nil", got)
	}
}

func TestOrderKey(t *testing.T) {
	if got := OrderKey("kid-1", "todo"); got != "kid-1|todo" {
		t.Errorf("OrderKey = %q", got)
	}
}
