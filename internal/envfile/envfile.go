// Package envfile parses KEY=VALUE environment files.
package envfile

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultPath is the file Load reads when given an empty path.
const DefaultPath = ".env"

// ErrKeyNotFound is returned by Lookup when the file does not define the key.
var ErrKeyNotFound = errors.New("key not found")

//nolint:gochecknoglobals
var (
	line   = regexp.MustCompile(`^\s*([\w.\-]+)\s*=\s*(.*)?\s*$`)
	quotes = regexp.MustCompile(`^['"]|['"]$`)
)

// Parse returns the definitions found in src.
//
// Lines that do not look like KEY=VALUE are ignored and CRLF line endings are accepted.
// A value wrapped in double quotes has its literal \n sequences expanded to newlines.
// One leading and one trailing quote are then stripped and the value is trimmed.
// The first definition of a key wins.
func Parse(src []byte) map[string]string {
	env := make(map[string]string)

	for _, raw := range strings.Split(string(src), "\n") {
		match := line.FindStringSubmatch(strings.TrimSuffix(raw, "\r"))
		if match == nil {
			continue
		}

		key, value := match[1], strings.TrimSpace(match[2])

		if _, ok := env[key]; ok {
			continue
		}

		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = strings.ReplaceAll(value, `\n`, "\n")
		}

		env[key] = strings.TrimSpace(quotes.ReplaceAllString(value, ""))
	}

	return env
}

// Load reads and parses the file at path, DefaultPath when empty.
func Load(path string) (map[string]string, error) {
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading env file %q: %w", path, err)
	}

	return Parse(data), nil
}

// Lookup returns the value of key in the file at path.
func Lookup(path, key string) (string, error) {
	env, err := Load(path)
	if err != nil {
		return "", err
	}

	value, ok := env[key]
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrKeyNotFound, key, path)
	}

	return value, nil
}
