package file

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix marks environment variables that override config keys.
// A double underscore separates key segments, so
// LECTERN_READER__PAGE_SIZE overrides reader.page_size.
const EnvPrefix = "LECTERN_"

// LoadDotEnv loads variables from the given .env files into the process
// environment. Empty paths and missing files are skipped, and variables
// already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv installs overrides from environ (as returned by os.Environ).
// It returns the config keys that were overridden.
func (s *ConfigStore) ApplyEnv(environ []string) []string {
	var keys []string
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, ok := EnvKey(name)
		if !ok {
			continue
		}
		s.Override(key, value)
		keys = append(keys, key)
	}
	return keys
}

// EnvKey maps an environment variable name to its config key.
func EnvKey(name string) (string, bool) {
	rest, ok := strings.CutPrefix(name, EnvPrefix)
	if !ok || rest == "" {
		return "", false
	}
	parts := strings.Split(strings.ToLower(rest), "__")
	for _, p := range parts {
		if p == "" {
			return "", false
		}
	}
	return strings.Join(parts, "."), true
}
