package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusInReview, false},
		{StatusPending, StatusCompleted, false},
		{StatusInProgress, StatusInReview, true},
		{StatusInProgress, StatusCompleted, false},
		{StatusInProgress, StatusPending, false},
		{StatusInReview, StatusCompleted, true},
		{StatusInReview, StatusInProgress, true},
		{StatusInReview, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusInReview, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusEditable(t *testing.T) {
	assert.True(t, StatusPending.Editable())
	assert.False(t, StatusInProgress.Editable())
	assert.False(t, StatusInReview.Editable())
	assert.False(t, StatusCompleted.Editable())
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusInReview, StatusCompleted} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("rejected").Valid())
}
