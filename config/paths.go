package config

import (
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
)

const StorePath = "db"

func ExpandHomePath(path string) string {
	res, err := homedir.Expand(path)
	if err != nil {
		panic(err)
	}
	return res
}

// ExpandStorePath resolves the configured store path. Relative paths are
// taken from the home directory.
func ExpandStorePath(homePath string, storePath string) string {
	p := ExpandHomePath(storePath)
	if path.IsAbs(p) {
		return p
	}
	return path.Join(homePath, p)
}

func InitStoreDir(homePath string, storePath string) error {
	return os.MkdirAll(ExpandStorePath(homePath, storePath), 0700)
}
