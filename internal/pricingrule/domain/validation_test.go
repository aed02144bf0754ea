package domain_test

import (
	"errors"
	"testing"

	"github.com/smallbiznis/shopcore/internal/pricingrule/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRulesSortsAndParses(t *testing.T) {
	tiers, err := domain.ValidateRules(domain.ModeMarkup, []domain.RuleInput{
		{From: "50", To: "", ValuePercent: "20"},
		{From: 0.0, To: 50.0, ValuePercent: "35.5"},
	})
	require.NoError(t, err)
	require.Len(t, tiers, 2)

	assert.True(t, tiers[0].From.IsZero())
	require.NotNil(t, tiers[0].To)
	assert.Equal(t, "50", tiers[0].To.String())
	assert.Equal(t, "35.5", tiers[0].ValuePercent.String())
	assert.Nil(t, tiers[1].To)
}

func TestValidateRulesNamesFailingRule(t *testing.T) {
	cases := []struct {
		name  string
		mode  string
		rules []domain.RuleInput
		msg   string
	}{
		{
			name:  "from not numeric",
			mode:  domain.ModeMarkup,
			rules: []domain.RuleInput{{From: "abc", ValuePercent: 10}},
			msg:   "rule #1: 'from' must be a number",
		},
		{
			name:  "negative from",
			mode:  domain.ModeMarkup,
			rules: []domain.RuleInput{{From: -1, ValuePercent: 10}},
			msg:   "rule #1: 'from' must be >= 0",
		},
		{
			name: "to not above from",
			mode: domain.ModeMarkup,
			rules: []domain.RuleInput{
				{From: 0, To: 10, ValuePercent: 10},
				{From: 10, To: 10, ValuePercent: 10},
			},
			msg: "rule #2: 'to' must be > 'from'",
		},
		{
			name:  "missing percent",
			mode:  domain.ModeMarkup,
			rules: []domain.RuleInput{{From: 0}},
			msg:   "rule #1: 'value_percent' must be a number",
		},
		{
			name:  "full margin",
			mode:  domain.ModeMargin,
			rules: []domain.RuleInput{{From: 0, ValuePercent: 100}},
			msg:   "rule #1: 'value_percent' must be < 100 in margin mode",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ValidateRules(tc.mode, tc.rules)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidRules))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestNormalizeMode(t *testing.T) {
	mode, err := domain.NormalizeMode(" MarKup ")
	require.NoError(t, err)
	assert.Equal(t, domain.ModeMarkup, mode)

	_, err = domain.NormalizeMode("discount")
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
}
