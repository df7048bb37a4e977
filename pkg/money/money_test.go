package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{7, "7"},
		{700, "700"},
		{7000, "7 000"},
		{70000, "70 000"},
		{700000, "700 000"},
		{1234567, "1 234 567"},
		{-7000, "-7 000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.amount))
		})
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "7 000 ₽", Format(7000))
	assert.Equal(t, "0 ₽", Format(0))
	assert.Equal(t, "-2 800 ₽", Format(-2800))
}
