package cli

import (
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var ErrNoInput = errors.New("no input: pass an argument, --file, or pipe data on stdin")

// ReadInput returns the command's input: the first positional argument if
// present, otherwise the --file flag, otherwise stdin. An interactive
// terminal on stdin is refused rather than waited on.
func ReadInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 {
		return []byte(args[0]), nil
	}
	if file, _ := cmd.Flags().GetString(FlagFile); file != "" {
		b, err := ioutil.ReadFile(file)
		if err != nil {
			return nil, errors.Wrap(err, "error reading input file")
		}
		return b, nil
	}
	return readStdin(cmd.InOrStdin())
}

func readStdin(in io.Reader) ([]byte, error) {
	if f, ok := in.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return nil, ErrNoInput
	}
	b, err := ioutil.ReadAll(in)
	if err != nil {
		return nil, errors.Wrap(err, "error reading stdin")
	}
	return b, nil
}

// DecodeHex accepts hex with optional whitespace and an optional 0x prefix.
func DecodeHex(in []byte) ([]byte, error) {
	s := strings.Join(strings.Fields(string(in)), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex input")
	}
	return b, nil
}
