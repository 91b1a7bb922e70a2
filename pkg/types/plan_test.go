package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanSatisfies(t *testing.T) {
	tests := []struct {
		have, need Plan
		want       bool
	}{
		{PlanLight, PlanPro, false},
		{PlanLight, PlanLight, true},
		{PlanPlus, PlanLight, true},
		{PlanPro, PlanPlus, true},
		{PlanTrial, PlanPlus, true},
		{PlanTrial, PlanPro, false},
		{PlanNone, PlanLight, false},
		{Plan("gold"), PlanLight, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, tc.have.Satisfies(tc.need), "%s satisfies %s", tc.have, tc.need)
	}
}

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan("plus")
	require.NoError(t, err)
	require.Equal(t, PlanPlus, p)

	_, err = ParsePlan("platinum")
	require.Error(t, err)
}

func TestValidateClock(t *testing.T) {
	require.NoError(t, ValidateClock("08:30"))
	require.NoError(t, ValidateClock("23:59"))
	require.Error(t, ValidateClock("24:00"))
	require.Error(t, ValidateClock("8:30"))
}

func TestRequirePlan(t *testing.T) {
	require.NoError(t, RequirePlan(PlanPro, PlanPlus))
	require.NoError(t, RequirePlan(PlanTrial, PlanPlus))

	err := RequirePlan(PlanLight, PlanPro)
	require.ErrorIs(t, err, ErrPlanRequired)
	var pr *PlanRequiredError
	require.ErrorAs(t, err, &pr)
	require.Equal(t, PlanPro, pr.Required)
	require.Equal(t, PlanLight, pr.Current)
}
