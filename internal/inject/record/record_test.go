package record

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackend_RecordsAndWrites(t *testing.T) {
	var out bytes.Buffer
	b := New(&out)
	assert.Equal(t, "record", b.Name())

	s, err := b.Open(context.Background())
	require.NoError(t, err)

	for _, r := range "añ😀" {
		require.NoError(t, s.Send(context.Background(), r))
	}
	require.NoError(t, s.Close())

	assert.Equal(t, "añ😀", out.String())
	assert.Equal(t, []rune("añ😀"), b.Attempts())
	assert.Equal(t, 1, b.Opens())
	assert.Equal(t, 1, b.Closes())
}

func TestBackend_ScriptedFailures(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	b := New(&out, WithFailures(FailAt(boom, 1)))

	s, err := b.Open(context.Background())
	require.NoError(t, err)

	assert.NoError(t, s.Send(context.Background(), 'a'))
	assert.ErrorIs(t, s.Send(context.Background(), 'b'), boom)
	assert.NoError(t, s.Send(context.Background(), 'c'))

	// Failed characters are attempted but never written.
	assert.Equal(t, "ac", out.String())
	assert.Equal(t, []rune("abc"), b.Attempts())
}

func TestBackend_OpenError(t *testing.T) {
	denied := errors.New("denied")
	b := New(nil, WithOpenError(denied))

	s, err := b.Open(context.Background())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, 1, b.Opens())
}

func TestSession_SendAfterClose(t *testing.T) {
	b := New(nil)
	s, err := b.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "closing twice is harmless")
	assert.Error(t, s.Send(context.Background(), 'x'))
	assert.Equal(t, 1, b.Closes())
}
