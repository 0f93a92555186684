package interpolation

import (
	"errors"
	"fmt"
	"os"
	"regexp"
)

// Pattern for ${VAR_NAME} and ${VAR_NAME:default} syntax - captures colon explicitly
var envVarWithDefaultPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:)?([^}]*)\}`)

// LookupFunc reports the value of a variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// ExpandEnvVars expands environment variables with default values in the format:
//
// ${VAR_NAME:default_value}
//
// If the environment variable is not set, it uses the default value if provided. If no default is
// provided and the variable is missing, it returns an error.
func ExpandEnvVars(input string) (string, error) {
	return ExpandVars(input, os.LookupEnv)
}

// ExpandVars is ExpandEnvVars with the variable source injected, so config
// resolution can expand against a snapshot instead of the live environment.
func ExpandVars(input string, lookup LookupFunc) (string, error) {
	if input == "" {
		return "", nil
	}

	var missingVars []error
	result := envVarWithDefaultPattern.ReplaceAllStringFunc(input, func(match string) string {
		submatches := envVarWithDefaultPattern.FindStringSubmatch(match)
		// submatches will be: [full_match, varName, colon, defaultValue]

		varName := submatches[1]
		// Check if the colon was captured to see if a default was intended.
		colonIsPresent := submatches[2] == ":"
		defaultValue := submatches[3]

		value, exists := lookup(varName)
		if exists {
			return value
		}

		// If not in env, use the default if one was provided.
		// This correctly handles cases like ${VAR:} where the default is an empty string.
		if colonIsPresent {
			return defaultValue
		}

		// Otherwise, the variable is missing.
		missingVars = append(
			missingVars,
			fmt.Errorf("environment variable not defined: %s", varName),
		)
		return match // Return the original string for the missing variable
	})

	return result, errors.Join(missingVars...)
}

// ExpandSlice expands every element in place and returns the combined
// error for all missing variables, so a command line reports every
// problem at once instead of one per attempt.
func ExpandSlice(values []string, lookup LookupFunc) error {
	var errs []error
	for i, v := range values {
		expanded, err := ExpandVars(v, lookup)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		values[i] = expanded
	}
	return errors.Join(errs...)
}

// ExpandMap expands every value in place. Keys are never interpolated.
func ExpandMap(values map[string]string, lookup LookupFunc) error {
	var errs []error
	for k, v := range values {
		expanded, err := ExpandVars(v, lookup)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k, err))
			continue
		}
		values[k] = expanded
	}
	return errors.Join(errs...)
}
