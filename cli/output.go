package cli

import (
	"io"

	"github.com/spf13/cobra"

	"ziproto/convert"
	"ziproto/value"
)

// AddOutputFlags registers the flags read by WriteValue.
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(FlagYAML, false, "Write YAML instead of JSON.")
	cmd.Flags().Bool(FlagPretty, false, "Indent JSON output.")
}

// WriteValue writes v as JSON, indented JSON or YAML depending on the
// command's output flags. Every form ends in a newline.
func WriteValue(cmd *cobra.Command, w io.Writer, v value.Value) error {
	asYAML, _ := cmd.Flags().GetBool(FlagYAML)
	pretty, _ := cmd.Flags().GetBool(FlagPretty)
	switch {
	case asYAML:
		b, err := convert.MarshalYAML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	case pretty:
		return convert.WriteJSONIndent(w, v, "  ")
	default:
		if err := convert.WriteJSON(w, v); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
}

// ParseValue reads JSON, or YAML when the command's --yaml flag is set.
func ParseValue(cmd *cobra.Command, data []byte) (value.Value, error) {
	if asYAML, _ := cmd.Flags().GetBool(FlagYAML); asYAML {
		return convert.ParseYAML(data)
	}
	return convert.ParseJSON(data)
}
