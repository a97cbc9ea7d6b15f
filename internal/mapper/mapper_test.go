package mapper

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wendyzhou/eventkit/internal/domain"
	"github.com/Wendyzhou/eventkit/internal/schema"
)

const testNow int64 = 1766702551

func fixedClock() time.Time {
	return time.Unix(testNow, 0)
}

func notification(t *testing.T, body string) domain.Notification {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader([]byte(body)))
	dec.UseNumber()

	var fields map[string]any
	require.NoError(t, dec.Decode(&fields))

	return domain.Notification{Fields: fields, Raw: json.RawMessage(body)}
}

func TestMapper_Map_KnownAndUnknownFields(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"open","email":"a@b.com","timestamp":1690000000,"foo":"bar"}`))

	require.NoError(t, err)
	assert.Equal(t, "open", row[schema.ColEvent])
	assert.Equal(t, "a@b.com", row[schema.ColEmail])
	assert.Equal(t, int64(1690000000), row[schema.ColTimestamp])
	assert.Equal(t, `{"foo":"bar"}`, row[schema.ColAdditionalArguments])
	assert.Equal(t, testNow, row[schema.ColEventPostTimestamp])
	assert.NotContains(t, row, schema.ColUID)
}

func TestMapper_Map_MissingEvent(t *testing.T) {
	m := New()

	row, err := m.Map(notification(t, `{"email":"a@b.com"}`))

	assert.ErrorIs(t, err, ErrMissingField)
	assert.Nil(t, row)
}

func TestMapper_Map_CategoryAlwaysJSON(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"open","category":"x","newsletter":{"newsletter_id":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, row[schema.ColCategory])
	assert.Equal(t, `{"newsletter_id":"1"}`, row[schema.ColNewsletter])

	row, err = m.Map(notification(t, `{"event":"open","category":["a","b"]}`))
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, row[schema.ColCategory])
}

func TestMapper_Map_HyphenatedKeys(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"processed","smtp-id":"<14c5d75ce93.dfd.64b469@ismtpd-555>","x-custom":1}`))

	require.NoError(t, err)
	assert.Equal(t, "<14c5d75ce93.dfd.64b469@ismtpd-555>", row["smtpid"])
	assert.Equal(t, `{"xcustom":1}`, row[schema.ColAdditionalArguments])
}

func TestMapper_Map_NoUnknownFields(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"delivered","email":"a@b.com"}`))

	require.NoError(t, err)
	assert.NotContains(t, row, schema.ColAdditionalArguments)
}

func TestMapper_Map_RawIsOriginal(t *testing.T) {
	m := New(WithClock(fixedClock))
	body := `{ "event" : "open", "smtp-id":"<x&y>", "z":1.50 }`

	row, err := m.Map(notification(t, body))

	require.NoError(t, err)
	assert.Equal(t, `{"event":"open","smtp-id":"<x&y>","z":1.50}`, row[schema.ColRaw])
}

func TestMapper_Map_ServerColumnsNotTakenFromClient(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"open","event_post_timestamp":1,"uid":99,"raw":"forged"}`))

	require.NoError(t, err)
	assert.Equal(t, testNow, row[schema.ColEventPostTimestamp])
	assert.NotContains(t, row, schema.ColUID)
	assert.Equal(t, `{"event":"open","event_post_timestamp":1,"uid":99,"raw":"forged"}`, row[schema.ColRaw])
	assert.JSONEq(t, `{"event_post_timestamp":1,"raw":"forged","uid":99}`, row[schema.ColAdditionalArguments].(string))
}

func TestMapper_Map_CompositeKnownValue(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(notification(t, `{"event":"click","url":{"href":"https://example.com"},"attempt":3}`))

	require.NoError(t, err)
	assert.Equal(t, `{"href":"https://example.com"}`, row["url"])
	assert.Equal(t, "3", row["attempt"])
}

func TestMapper_Map_WithoutRawBytes(t *testing.T) {
	m := New(WithClock(fixedClock))

	row, err := m.Map(domain.Notification{Fields: map[string]any{"event": "open"}})

	require.NoError(t, err)
	assert.Equal(t, `{"event":"open"}`, row[schema.ColRaw])
}
