package issuance

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/dossier-issuance/internal/domain"
)

func TestComputeAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		unitPrice int64
		area      string
		want      int64
		wantErr   error
	}{
		{name: "fractional area", unitPrice: 5000, area: "1200.5", want: 6002500},
		{name: "truncates toward zero", unitPrice: 3, area: "0.999", want: 2},
		{name: "zero area", unitPrice: 5000, area: "0", want: 0},
		{name: "zero price", unitPrice: 0, area: "150", want: 0},
		{name: "largest amount", unitPrice: math.MaxInt64, area: "1", want: math.MaxInt64},
		{name: "overflow", unitPrice: math.MaxInt64, area: "2", wantErr: domain.ErrValidation},
		{name: "negative price", unitPrice: -1, area: "10", wantErr: domain.ErrConfiguration},
		{name: "negative area", unitPrice: 5000, area: "-0.5", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ComputeAmount(tt.unitPrice, decimal.RequireFromString(tt.area))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}
