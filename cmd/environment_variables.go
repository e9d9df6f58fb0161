package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const (
	EnvironmentVariablePrefix = "RAWLINK_"

	// fileSuffix is appended to a variable name to read the flag value from
	// a file instead, e.g. RAWLINK_SECRET_FILE.
	fileSuffix = "_FILE"
)

// SetFlagsFromEnvVariables sets flags from environment variables. Each flag
// can be set with a variable whose name starts with `RAWLINK_`, or from the
// contents of a file named by the same variable suffixed with `_FILE`.
func SetFlagsFromEnvVariables(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		envVar := flagToEnvVarName(f)
		if val, present := os.LookupEnv(envVar); present {
			err = setFlag(fs, f, val)
			return
		}
		if strings.HasSuffix(envVar, fileSuffix) {
			// ambiguous, so don't look for a file
			return
		}
		if path, present := os.LookupEnv(envVar + fileSuffix); present {
			contents, readErr := os.ReadFile(path)
			if readErr != nil {
				err = fmt.Errorf("reading %s: %w", envVar+fileSuffix, readErr)
				return
			}
			err = setFlag(fs, f, trimNewline(string(contents)))
		}
	})
	return err
}

func setFlag(fs *pflag.FlagSet, f *pflag.Flag, val string) error {
	if err := fs.Set(f.Name, val); err != nil {
		return fmt.Errorf("setting flag %s from environment: %w", f.Name, err)
	}
	return nil
}

func flagToEnvVarName(f *pflag.Flag) string {
	return EnvironmentVariablePrefix + strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_")
}

// trimNewline removes a single trailing line ending, which editors add when
// saving a file.
func trimNewline(s string) string {
	if s, ok := strings.CutSuffix(s, "\n"); ok {
		return strings.TrimSuffix(s, "\r")
	}
	return s
}
