package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xkowalskidev/mcstatus/mcerr"
)

func TestDecodeChatComponentPlainString(t *testing.T) {
	c, err := DecodeChatComponent([]byte(`"Hello"`))
	require.NoError(t, err)
	assert.Equal(t, "Hello", c.Text)
	assert.Empty(t, c.Extra)
}

func TestDecodeChatComponentObjectWithExtra(t *testing.T) {
	raw := []byte(`{"text":"A ","color":"red","bold":true,"extra":[{"text":"B"},"C"]}`)
	c, err := DecodeChatComponent(raw)
	require.NoError(t, err)
	assert.Equal(t, "A ", c.Text)
	assert.True(t, c.Bold)
	assert.Equal(t, "red", c.Color)
	assert.True(t, c.HasColor)
	require.Len(t, c.Extra, 2)
	assert.Equal(t, "B", c.Extra[0].Text)
	assert.Equal(t, "C", c.Extra[1].Text)
	assert.Equal(t, "A BC", c.PlainText())
}

func TestDecodeChatComponentTopLevelArray(t *testing.T) {
	c, err := DecodeChatComponent([]byte(`[{"text":"x"},{"text":"y"}]`))
	require.NoError(t, err)
	assert.Equal(t, "", c.Text)
	require.Len(t, c.Extra, 2)
	assert.Equal(t, "xy", c.PlainText())
}

func TestDecodeChatComponentUnknownFieldsPreserved(t *testing.T) {
	c, err := DecodeChatComponent([]byte(`{"text":"x","clickEvent":{"action":"open_url"}}`))
	require.NoError(t, err)
	require.Contains(t, c.Unknown, "clickEvent")
}

func TestDecodeChatComponentInvalidShape(t *testing.T) {
	_, err := DecodeChatComponent([]byte(`42`))
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.ChatComponentInvalid))
}

func TestDecodeChatComponentNullColor(t *testing.T) {
	c, err := DecodeChatComponent([]byte(`{"text":"x","color":null}`))
	require.NoError(t, err)
	assert.False(t, c.HasColor)
}

func TestDecodeChatComponentTooDeep(t *testing.T) {
	raw := []byte(`{"text":""`)
	var buf []byte
	buf = append(buf, raw...)
	for i := 0; i < 40; i++ {
		buf = append(buf, []byte(`,"extra":[{"text":""`)...)
	}
	for i := 0; i < 40; i++ {
		buf = append(buf, []byte(`}]`)...)
	}
	buf = append(buf, '}')
	_, err := DecodeChatComponent(buf)
	require.Error(t, err)
	assert.True(t, mcerr.Is(err, mcerr.ChatComponentInvalid))
}
