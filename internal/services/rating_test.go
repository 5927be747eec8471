package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundOneDecimal(t *testing.T) {
	tests := []struct {
		sum, n int64
		want   float64
	}{
		{0, 0, 0},
		{5, 1, 5.0},
		{8, 2, 4.0},
		{7, 3, 2.3},
		{5, 4, 1.3},
		{11, 4, 2.8},
		{13, 3, 4.3},
		{14, 3, 4.7},
		{9, 2, 4.5},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.sum, tt.n), func(t *testing.T) {
			assert.Equal(t, tt.want, RoundOneDecimal(tt.sum, tt.n))
		})
	}
}

func TestRoundOneDecimal_OrderIndependent(t *testing.T) {
	a := []int64{5, 3, 4, 1, 2}
	b := []int64{2, 1, 4, 3, 5}

	var sumA, sumB int64
	for i := range a {
		sumA += a[i]
		sumB += b[i]
	}

	assert.Equal(t, RoundOneDecimal(sumA, 5), RoundOneDecimal(sumB, 5))
}

func TestKind(t *testing.T) {
	assert.Equal(t, ErrConflict, Kind(ErrTeamNameTaken))
	assert.Equal(t, ErrInvalidState, Kind(fmt.Errorf("approve: %w", ErrRequestNotPending)))
	assert.Equal(t, ErrForbidden, Kind(ErrNotCaptain))
	assert.Equal(t, ErrValidation, Kind(ErrUnknownTag))
	assert.Equal(t, ErrNotFound, Kind(ErrFeedbackNotFound))
	assert.Nil(t, Kind(errors.New("connection reset")))
	assert.Nil(t, Kind(nil))
}
