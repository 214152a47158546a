package cmd

import (
	"bufio"
	"os"
	"strings"
)

// LoadDotEnv copies KEY=value pairs from the given files into the process
// environment so CALTRACK_* flag sources can be set per directory. Variables
// already set win. Missing files are skipped.
func LoadDotEnv(paths ...string) {
	for _, path := range paths {
		loadDotEnv(path)
	}
}

func loadDotEnv(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if _, set := os.LookupEnv(key); !set {
			_ = os.Setenv(key, value)
		}
	}
}
