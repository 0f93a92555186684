package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate performs comprehensive validation of the configuration. It
// collects every problem instead of stopping at the first, so a broken
// deployment surfaces all of its mistakes in one container start.
func (c *Config) Validate() error {
	// Validate version
	if c.Version == "" {
		c.Version = VersionUnknown
	}

	switch c.Version {
	case VersionLatest:
		// Supported version
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedConfigVer, c.Version)
	}

	errz := []error{}

	if len(c.Server.Command) == 0 || c.Server.Command[0] == "" {
		errz = append(errz, ErrNoServerCommand)
	}
	if err := c.Server.Validate(); err != nil {
		errz = append(errz, err)
	}
	if err := c.Wait.Validate(); err != nil {
		errz = append(errz, err)
	}

	if len(errz) > 0 {
		return fmt.Errorf("%w: %w", ErrFailedToValidateConfig, errors.Join(errz...))
	}
	return nil
}

// Validate checks the server section, except for the command itself.
// An empty command is only a problem for the run path, so the root
// Validate owns that check.
func (s *Server) Validate() error {
	errz := []error{}

	if s.Port < 1 || s.Port > 65535 {
		errz = append(
			errz,
			fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidValue, s.Port),
		)
	}
	if s.GracePeriod.AsDuration() <= 0 {
		errz = append(
			errz,
			fmt.Errorf("%w: grace period must be positive, got %s", ErrInvalidValue, s.GracePeriod),
		)
	}
	if err := validateRunAs(s.RunAs); err != nil {
		errz = append(errz, err)
	}

	return errors.Join(errz...)
}

// Validate checks the wait section: timing fields and target syntax.
func (w *Wait) Validate() error {
	errz := []error{}

	if w.Interval.AsDuration() <= 0 {
		errz = append(
			errz,
			fmt.Errorf("%w: wait interval must be positive, got %s", ErrInvalidValue, w.Interval),
		)
	}
	if w.Timeout.AsDuration() < 0 {
		errz = append(
			errz,
			fmt.Errorf("%w: wait timeout must not be negative, got %s", ErrInvalidValue, w.Timeout),
		)
	}
	if w.AttemptTimeout.AsDuration() <= 0 {
		errz = append(
			errz,
			fmt.Errorf("%w: wait attempt timeout must be positive, got %s", ErrInvalidValue, w.AttemptTimeout),
		)
	}
	for _, target := range w.Targets {
		if err := validateTarget(target); err != nil {
			errz = append(errz, err)
		}
	}

	return errors.Join(errz...)
}

// validateTarget checks syntax only. Whether the scheme has a checker
// is the probe package's call, made when the prober is built.
func validateTarget(target string) error {
	if target == "" {
		return fmt.Errorf("%w: empty target", ErrInvalidTarget)
	}

	if strings.Contains(target, "://") {
		u, err := url.Parse(target)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidTarget, target, err)
		}
		if u.Scheme == "unix" {
			if u.Path == "" && u.Opaque == "" {
				return fmt.Errorf("%w: %s: missing socket path", ErrInvalidTarget, target)
			}
			return nil
		}
		if u.Hostname() == "" {
			return fmt.Errorf("%w: %s: missing host", ErrInvalidTarget, target)
		}
		return nil
	}

	// Bare host:port shorthand for tcp.
	if _, _, err := net.SplitHostPort(target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidTarget, target, err)
	}
	return nil
}

// validateRunAs accepts "", a user name, a numeric uid, or either with
// a :group / :gid suffix.
func validateRunAs(spec string) error {
	if spec == "" {
		return nil
	}
	user, group, hasGroup := strings.Cut(spec, ":")
	switch {
	case user == "",
		hasGroup && group == "",
		strings.Count(spec, ":") > 1,
		strings.ContainsAny(spec, " \t"):
		return fmt.Errorf("%w: %q (want user, uid, user:group, or uid:gid)", ErrInvalidRunAs, spec)
	}
	return nil
}
