package transaction

import (
	"context"
	"testing"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/require"
)

func TestScanOrders_RejectsUnknownColumns(t *testing.T) {
	s := &Service{}

	_, err := s.ScanOrders(context.Background(), nil)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = s.ScanOrders(context.Background(), &ScanOrdersRequest{
		Filters: []*types.CommonFilter{{Field: "extra; DROP TABLE users", Operator: types.CommonFilterOperatorEq, Values: []any{"x"}}},
	})
	require.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = s.ScanOrders(context.Background(), &ScanOrdersRequest{SortBy: "secret"})
	require.ErrorIs(t, err, types.ErrInvalidInput)
}
