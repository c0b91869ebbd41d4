package codec

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"ziproto/value"
)

type seenToken struct {
	offset int
	kind   value.Kind
	depth  int
	length int
	size   int
}

func TestWalk(t *testing.T) {
	var seen []seenToken
	var payloads []string
	var ints []int64
	n, err := Walk(mustHex(t, "82a16101a16292c3c0"), DefaultLimits(), func(tok Token) error {
		seen = append(seen, seenToken{tok.Offset, tok.Kind(), tok.Depth, tok.Length, tok.Size})
		switch tok.Kind() {
		case value.KindStr:
			payloads = append(payloads, string(tok.Payload))
		case value.KindInt:
			ints = append(ints, tok.Int())
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 9, n)
	require.Equal(t, []seenToken{
		{0, value.KindMap, 0, 2, 1},
		{1, value.KindStr, 1, 1, 2},
		{3, value.KindInt, 1, 0, 1},
		{4, value.KindStr, 1, 1, 2},
		{6, value.KindArray, 1, 2, 1},
		{7, value.KindBool, 2, 0, 1},
		{8, value.KindNil, 2, 0, 1},
	}, seen)
	require.Equal(t, []string{"a", "b"}, payloads)
	require.Equal(t, []int64{1}, ints)
}

func TestWalk_SignedFields(t *testing.T) {
	var ints []int64
	_, err := Walk(mustHex(t, "94e0d080d1ff7fd38000000000000000"), DefaultLimits(), func(tok Token) error {
		if tok.Kind() == value.KindInt {
			ints = append(ints, tok.Int())
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int64{-32, -128, -129, -1 << 63}, ints)
}

func TestWalk_StopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	_, err := Walk(mustHex(t, "93010203"), DefaultLimits(), func(tok Token) error {
		calls++
		if tok.Kind() == value.KindInt && tok.Int() == 2 {
			return stop
		}
		return nil
	})
	require.Equal(t, stop, err)
	require.Equal(t, 3, calls)
}

func TestValidate(t *testing.T) {
	for name, v := range corpus() {
		b, err := Encode(v)
		require.NoError(t, err)
		n, err := Validate(append(b, 0xc1), DefaultLimits())
		require.NoError(t, err, name)
		require.Equal(t, len(b), n, name)
	}

	_, err := Validate(mustHex(t, "92c0"), DefaultLimits())
	require.Equal(t, ErrTruncatedInput, Kind(err))
	_, err = Validate(mustHex(t, "9191c0"), Limits{MaxDepth: 1})
	require.Equal(t, ErrDepthExceeded, Kind(err))
}
