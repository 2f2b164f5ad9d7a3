package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want CommandType
		args []string
	}{
		{"/stats", CommandStats, nil},
		{"  /FEES 45.00 12 ", CommandFees, []string{"45.00", "12"}},
		{"sold abc-123 $60", CommandSold, []string{"abc-123", "$60"}},
		{"/landed 4.5 100 80", CommandLanded, []string{"4.5", "100", "80"}},
		{"hello there", CommandUnknown, []string{"there"}},
		{"", CommandUnknown, nil},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			cmd := ParseCommand(tc.in)
			assert.Equal(t, tc.want, cmd.Type)
			assert.Equal(t, tc.args, cmd.Args)
			assert.Equal(t, tc.in, cmd.Raw)
		})
	}
}

func TestItemStatusRank(t *testing.T) {
	in, err := StatusInStock.Rank()
	require.NoError(t, err)
	sold, err := StatusSold.Rank()
	require.NoError(t, err)
	assert.Less(t, in, sold)

	_, err = ItemStatus("returned").Rank()
	assert.Error(t, err)
	assert.False(t, ItemStatus("returned").Valid())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, CategoryAccessories.Valid())
	assert.False(t, Category("furniture").Valid())
	assert.True(t, ConditionLikeNew.Valid())
	assert.False(t, Condition("mint").Valid())
	assert.True(t, GoalItemsSold.AutoTracked())
	assert.False(t, GoalCustom.AutoTracked())
	assert.True(t, OutcomeFailed.Valid())
	assert.False(t, OutcomeStatus("done").Valid())
	assert.False(t, TransactionType("refund").Valid())
}

func TestGoalProgress(t *testing.T) {
	g := Goal{Target: 200, Current: 50}
	assert.Equal(t, 25.0, g.Progress())
	assert.Equal(t, 150.0, g.Remaining())

	over := Goal{Target: 100, Current: 140}
	assert.Equal(t, 140.0, over.Progress())
	assert.Zero(t, over.Remaining())

	assert.Zero(t, Goal{}.Progress())
}

func TestDecisionCategory(t *testing.T) {
	d := AgentDecision{DataUsed: []DataSource{{Judgment: &Judgment{}}, {Opportunity: &ProductOpportunity{Category: "shoes"}}}}
	assert.Equal(t, "shoes", d.Category())
	assert.Equal(t, "unknown", AgentDecision{}.Category())
}
