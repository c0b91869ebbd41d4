package config

import (
	"os"

	"github.com/pkg/errors"
)

const DefaultHomeDir = "~/.ziproto"

var (
	ErrHomeMissing = errors.New("home directory is not initialized")
	ErrHomeExists  = errors.New("home directory is already initialized")
	ErrHomeIsFile  = errors.New("home path is a file")
)

// HomeDirExists reports whether path is a directory.
func HomeDirExists(path string) (bool, error) {
	stat, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return false, nil
	case err != nil:
		return false, errors.Wrapf(err, "stat %s", path)
	case !stat.IsDir():
		return false, errors.Wrap(ErrHomeIsFile, path)
	}
	return true, nil
}

func EnsureHomeDir(path string) error {
	exists, err := HomeDirExists(path)
	if err == nil && !exists {
		err = errors.Wrapf(ErrHomeMissing, "%s (run ziproto init)", path)
	}
	return err
}

// InitHomeDir lays out a fresh home: the directory itself, the store
// directory and a config file holding the defaults.
func InitHomeDir(path string) error {
	exists, err := HomeDirExists(path)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrap(ErrHomeExists, path)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return errors.Wrap(err, "create home")
	}
	if err := InitStoreDir(path, DefaultConfig.Store.Path); err != nil {
		return errors.Wrap(err, "create store dir")
	}
	return WriteDefaultConfigFile(path)
}
