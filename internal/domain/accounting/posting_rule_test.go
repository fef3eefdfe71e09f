package accounting

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostingRule(t *testing.T) {
	rule, err := NewPostingRule("inventory.goods_received", "Goods receipt posting", "inventory")
	require.NoError(t, err)

	assert.Equal(t, "inventory.goods_received", rule.EventType)
	assert.True(t, rule.IsActive)
	assert.Zero(t, rule.LineCount())

	_, err = NewPostingRule("", "", "")
	assert.Error(t, err)
}

func TestNewPostingRuleLine(t *testing.T) {
	line, err := NewPostingRuleLine(uuid.New(), Debit, "total_amount", "Invoice {invoice_number}")
	require.NoError(t, err)
	assert.Equal(t, "total_amount", line.AmountKey)

	_, err = NewPostingRuleLine(uuid.Nil, Debit, "total_amount", "")
	assert.Error(t, err)

	_, err = NewPostingRuleLine(uuid.New(), "SIDEWAYS", "total_amount", "")
	assert.Error(t, err)

	_, err = NewPostingRuleLine(uuid.New(), Credit, "", "")
	assert.Error(t, err)
}

func TestPostingRule_LineOrder(t *testing.T) {
	rule, err := NewPostingRule("sales.invoice_finalized", "", "sales")
	require.NoError(t, err)

	first, err := NewPostingRuleLine(uuid.New(), Debit, "total_amount", "")
	require.NoError(t, err)
	second, err := NewPostingRuleLine(uuid.New(), Credit, "net_amount", "")
	require.NoError(t, err)
	third, err := NewPostingRuleLine(uuid.New(), Credit, "tax_amount", "")
	require.NoError(t, err)

	rule.AddLine(first)
	rule.AddLine(second)
	rule.AddLine(third)

	require.Equal(t, 3, rule.LineCount())
	assert.Equal(t, "total_amount", rule.Lines[0].AmountKey)
	assert.Equal(t, "net_amount", rule.Lines[1].AmountKey)
	assert.Equal(t, "tax_amount", rule.Lines[2].AmountKey)
}

func TestPostingRule_ActivateDeactivate(t *testing.T) {
	rule, err := NewPostingRule("sales.invoice_finalized", "", "sales")
	require.NoError(t, err)

	rule.Deactivate()
	assert.False(t, rule.IsActive)

	rule.Activate()
	assert.True(t, rule.IsActive)
}
