package cli

const (
	FlagHome       = "home"
	FlagLogLevel   = "log-level"
	FlagMaxDepth   = "max-depth"
	FlagMaxPayload = "max-payload"
	FlagFile       = "file"
	FlagHex        = "hex"
	FlagYAML       = "yaml"
	FlagPretty     = "pretty"
)
