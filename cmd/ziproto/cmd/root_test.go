package cmd

import (
	"bytes"
	"encoding/hex"
	"io"
	"path"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"ziproto/codec"
	"ziproto/testutil/testfs"
)

// resetFlags puts every flag back to its default so that commands can be
// executed more than once in a test binary.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	var out, errOut bytes.Buffer
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func newHome(t *testing.T) (string, func()) {
	dir, done := testfs.NewTempDir(t)
	return path.Join(dir, "home"), done
}

func TestEncodeDecode(t *testing.T) {
	home, done := newHome(t)
	defer done()

	out, err := execute(t, nil, "--home", home, "encode", "--hex", `{"a":1,"b":[true,null]}`)
	require.NoError(t, err)
	require.Equal(t, "82a16101a16292c3c0\n", out)

	out, err = execute(t, nil, "--home", home, "decode", "82a16101a16292c3c0")
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":[true,null]}`+"\n", out)

	out, err = execute(t, nil, "--home", home, "decode", "--yaml", "82a16101a16292c3c0")
	require.NoError(t, err)
	for _, want := range []string{"a: 1\n", "b:\n", "- true\n", "- null\n"} {
		require.Contains(t, out, want)
	}
}

func TestEncodeDecode_RawStdin(t *testing.T) {
	home, done := newHome(t)
	defer done()

	raw, err := execute(t, strings.NewReader("list: [1, -1, 300]\nname: x\n"), "--home", home, "encode", "--yaml")
	require.NoError(t, err)
	require.Equal(t, "82a46c6973749301ffd1012ca46e616d65a178", hex.EncodeToString([]byte(raw)))

	out, err := execute(t, strings.NewReader(raw), "--home", home, "decode")
	require.NoError(t, err)
	require.Equal(t, `{"list":[1,-1,300],"name":"x"}`+"\n", out)
}

func TestEncodeDecode_Compressed(t *testing.T) {
	home, done := newHome(t)
	defer done()

	doc := `{"text":"` + strings.Repeat("abc", 200) + `"}`
	for _, alg := range []string{"none", "snappy", "lz4", "zstd"} {
		t.Run(alg, func(t *testing.T) {
			framed, err := execute(t, nil, "--home", home, "encode", "--hex", "--compress", alg, doc)
			require.NoError(t, err)
			out, err := execute(t, nil, "--home", home, "decode", "--compressed", strings.TrimSpace(framed))
			require.NoError(t, err)
			require.Equal(t, doc+"\n", out)
		})
	}

	_, err := execute(t, nil, "--home", home, "encode", "--compress", "gzip", "1")
	require.Error(t, err)
}

func TestDecode_Sequence(t *testing.T) {
	home, done := newHome(t)
	defer done()

	out, err := execute(t, nil, "--home", home, "decode", "--all", "0102c3")
	require.NoError(t, err)
	require.Equal(t, "1\n2\ntrue\n", out)

	_, err = execute(t, nil, "--home", home, "decode", "0102c3")
	require.True(t, errors.Is(err, codec.ErrTrailingData))

	out, err = execute(t, nil, "--home", home, "diag", "82a16101a16292c3c0c0")
	require.NoError(t, err)
	require.Equal(t, "{\"a\": 1, \"b\": [true, nil]}\nnil\n", out)
}

func TestDecode_LimitFlags(t *testing.T) {
	home, done := newHome(t)
	defer done()

	_, err := execute(t, nil, "--home", home, "--max-depth", "1", "decode", "9191c0")
	require.True(t, errors.Is(err, codec.ErrDepthExceeded))

	out, err := execute(t, nil, "--home", home, "decode", "9191c0")
	require.NoError(t, err)
	require.Equal(t, "[[null]]\n", out)

	_, err = execute(t, nil, "--home", home, "--max-payload", "2", "decode", "a3616263")
	require.True(t, errors.Is(err, codec.ErrLengthOverflow))

	_, err = execute(t, nil, "--home", home, "--log-level", "loud", "decode", "c0")
	require.Error(t, err)
}

func TestInspect(t *testing.T) {
	home, done := newHome(t)
	defer done()

	out, err := execute(t, nil, "--home", home, "inspect", "82a16101a16292c3c0")
	require.NoError(t, err)
	for _, want := range []string{"fixmap", "fixstr", "positive fixint", "fixarray", "true", "nil", `"a"`} {
		require.Contains(t, out, want)
	}

	_, err = execute(t, nil, "--home", home, "inspect", "92c0c1")
	require.True(t, errors.Is(err, codec.ErrUnknownTag))
}

func TestTags(t *testing.T) {
	home, done := newHome(t)
	defer done()

	out, err := execute(t, nil, "--home", home, "tags")
	require.NoError(t, err)
	require.Contains(t, out, "0xc1")
	require.Contains(t, out, "reserved")

	out, err = execute(t, nil, "--home", home, "tags", "--known")
	require.NoError(t, err)
	require.NotContains(t, out, "0xc1")
	require.Contains(t, out, "negative fixint")
	require.Contains(t, out, "-32")
}

func TestInitAndStore(t *testing.T) {
	home, done := newHome(t)
	defer done()

	_, err := execute(t, nil, "--home", home, "store", "get", "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "ziproto init")

	out, err := execute(t, nil, "--home", home, "init")
	require.NoError(t, err)
	require.Contains(t, out, home)
	_, err = execute(t, nil, "--home", home, "init")
	require.Error(t, err)

	out, err = execute(t, nil, "--home", home, "store", "put", "users/1", `{"name":"ana","age":31}`)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Stored users/1 ("), out)

	out, err = execute(t, strings.NewReader(`{"2":{"name":"bo"},"3":[1,2]}`), "--home", home, "store", "import", "--prefix", "users/")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "Stored 2 values"), out)

	out, err = execute(t, nil, "--home", home, "store", "get", "users/1")
	require.NoError(t, err)
	require.Equal(t, `{"name":"ana","age":31}`+"\n", out)

	out, err = execute(t, nil, "--home", home, "store", "list", "users/")
	require.NoError(t, err)
	for _, want := range []string{"users/1", "users/2", "users/3", "map", "array"} {
		require.Contains(t, out, want)
	}

	_, err = execute(t, nil, "--home", home, "store", "delete", "users/1")
	require.NoError(t, err)
	_, err = execute(t, nil, "--home", home, "store", "get", "users/1")
	require.Error(t, err)

	_, err = execute(t, nil, "--home", home, "store", "import", "[1]")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	home, done := newHome(t)
	defer done()
	out, err := execute(t, nil, "--home", home, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "ziproto "), out)
}
