package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToggleSingleReplaces(t *testing.T) {
	d1 := NewDate(2026, time.April, 9)
	d2 := NewDate(2026, time.April, 10)

	sel := NewSelection(ModeSingle).Toggle(d1, nil)
	assert.True(t, sel.Contains(d1))
	assert.False(t, sel.Contains(d2))

	sel = sel.Toggle(d2, nil)
	assert.False(t, sel.Contains(d1))
	assert.True(t, sel.Contains(d2))
	assert.Len(t, sel.Dates, 1)
}

func TestToggleMultipleIsItsOwnInverse(t *testing.T) {
	d1 := NewDate(2026, time.April, 9)
	d2 := NewDate(2026, time.April, 12)
	d3 := NewDate(2026, time.April, 20)

	sel := NewSelection(ModeMultiple).Toggle(d1, nil).Toggle(d2, nil).Toggle(d3, nil)
	assert.Equal(t, []Date{d1, d2, d3}, sel.Dates)

	sel = sel.Toggle(d2, nil)
	assert.Equal(t, []Date{d1, d3}, sel.Dates)

	sel = sel.Toggle(d2, nil)
	assert.Equal(t, []Date{d1, d3, d2}, sel.Dates)
}

func TestToggleDisabledDateIsInert(t *testing.T) {
	d1 := NewDate(2026, time.April, 9)
	blocked := NewDate(2026, time.April, 10)
	disabled := func(d Date) bool { return d == blocked }

	sel := NewSelection(ModeMultiple).Toggle(d1, disabled).Toggle(blocked, disabled)
	assert.Equal(t, []Date{d1}, sel.Dates)

	single := NewSelection(ModeSingle).Toggle(d1, disabled).Toggle(blocked, disabled)
	assert.Equal(t, []Date{d1}, single.Dates)
}

func TestToggleRangeModeIsNoop(t *testing.T) {
	d := NewDate(2026, time.April, 9)
	sel := NewSelection(ModeRange).Toggle(d, nil)
	assert.Empty(t, sel.Dates)
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	d1 := NewDate(2026, time.April, 9)
	d2 := NewDate(2026, time.April, 10)

	original := NewSelection(ModeMultiple).Toggle(d1, nil)
	_ = original.Toggle(d2, nil)
	assert.Equal(t, []Date{d1}, original.Dates)
}
