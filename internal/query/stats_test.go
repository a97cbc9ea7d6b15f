package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(n int64) *int64 {
	return &n
}

func TestEmailStats_Rates(t *testing.T) {
	s := newEmailStats([]LabelCount{
		{Label: "processed", Count: 4},
		{Label: "delivered", Count: 3},
		{Label: "open", Count: 2},
		{Label: "click", Count: 1},
	})

	assert.Equal(t, ptr(75), s.DeliveryRate)
	assert.Equal(t, ptr(67), s.OpenRate)
	assert.Equal(t, ptr(33), s.ClickRate)
}

func TestEmailStats_ZeroDenominator(t *testing.T) {
	s := newEmailStats([]LabelCount{
		{Label: "processed", Count: 0},
		{Label: "delivered", Count: 0},
		{Label: "open", Count: 0},
		{Label: "click", Count: 0},
	})

	assert.Nil(t, s.DeliveryRate)
	assert.Nil(t, s.OpenRate)
	assert.Nil(t, s.ClickRate)
}

func TestEmailStats_MissingLabels(t *testing.T) {
	s := newEmailStats([]LabelCount{{Label: "bounce", Count: 2}})

	assert.Nil(t, s.DeliveryRate)

	_, ok := s.Count("open")
	assert.False(t, ok)
}

func TestEmailStats_MarshalJSON(t *testing.T) {
	s := newEmailStats([]LabelCount{
		{Label: "processed", Count: 2},
		{Label: "delivered", Count: 1},
	})

	b, err := json.Marshal(s)
	require.NoError(t, err)

	assert.JSONEq(t, `{"processed":2,"delivered":1,"delivery_rate":50,"open_rate":null,"click_rate":null}`, string(b))
}
