package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/J0Ysutradhar/pilot/internal/fancy"
)

// String returns a pretty-printed tree representation of the config
func (c *Config) String() string {
	return ConfigTree(c)
}

// ConfigTree converts a Config struct into a rendered boot plan string.
// Phase sections appear in execution order and use the same names the
// boot log uses, so the plan can be read against a live log stream.
func ConfigTree(cfg *Config) string {
	t := fancy.Tree()
	t.Root(fancy.RootStyle.Render(fmt.Sprintf("Pilot Boot Plan (%s)", cfg.Version)))

	t.Child(waitTree(cfg.Wait).Tree())
	t.Child(commandTree("migrating", cfg.Migrate, "no migration command").Tree())
	t.Child(commandTree("preparing_assets", cfg.Assets, "no assets command").Tree())
	t.Child(privilegeTree(cfg.Server.RunAs).Tree())
	t.Child(serverTree(cfg.Server).Tree())
	t.Child(logTree(cfg.Log).Tree())

	return t.String()
}

func waitTree(w Wait) *fancy.ComponentTree {
	section := fancy.PhaseTree("probing")
	if len(w.Targets) == 0 {
		section.AddChild(fancy.WarnText("skipped (no wait targets)"))
		return section
	}
	for _, target := range w.Targets {
		section.AddChild(fancy.TargetText(redactTarget(target)))
	}
	section.AddChild(fmt.Sprintf("Timeout: %s", w.Timeout))
	section.AddChild(fmt.Sprintf("Interval: %s", w.Interval))
	section.AddChild(fmt.Sprintf("Attempt Timeout: %s", w.AttemptTimeout))
	return section
}

func commandTree(phase string, argv []string, skipNote string) *fancy.ComponentTree {
	section := fancy.PhaseTree(phase)
	if len(argv) == 0 {
		section.AddChild(fancy.WarnText("skipped (" + skipNote + ")"))
		return section
	}
	section.AddChild(fancy.CommandText(strings.Join(argv, " ")))
	return section
}

func privilegeTree(runAs string) *fancy.ComponentTree {
	section := fancy.PhaseTree("dropping_privileges")
	if runAs == "" {
		section.AddChild(fancy.WarnText("skipped (no run-as identity)"))
		return section
	}
	section.AddChild(fmt.Sprintf("Run As: %s", fancy.ValueText(runAs)))
	return section
}

func serverTree(s Server) *fancy.ComponentTree {
	section := fancy.PhaseTree("running")
	section.AddChild(fancy.CommandText(strings.Join(s.Command, " ")))
	section.AddChild(fmt.Sprintf("Port: %d", s.Port))
	section.AddChild(fmt.Sprintf("Grace Period: %s", s.GracePeriod))
	if s.WorkingDir != "" {
		section.AddChild(fmt.Sprintf("Working Dir: %s", s.WorkingDir))
	}
	for _, name := range slices.Sorted(maps.Keys(s.Env)) {
		section.AddChild(fmt.Sprintf("Env: %s=%s", name, s.Env[name]))
	}
	return section
}

func logTree(l Log) *fancy.ComponentTree {
	section := fancy.NewComponentTree("Logging")
	section.AddChild(fmt.Sprintf("Format: %s", l.Format))
	section.AddChild(fmt.Sprintf("Level: %s", l.Level))
	section.AddChild(fmt.Sprintf("Output: %s", l.Output))
	return section
}

// redactTarget hides userinfo passwords so plan output is safe to share.
func redactTarget(target string) string {
	if !strings.Contains(target, "://") {
		return target
	}
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	return u.Redacted()
}
