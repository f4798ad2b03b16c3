package render

import (
	"strconv"

	"github.com/angeloszaimis/uwsgicfg/config"
	"github.com/angeloszaimis/uwsgicfg/internal/inifile"
)

type entry struct {
	key   string
	flag  bool
	value func(*config.Config) (string, bool)
}

func stringEntry(key string, get func(*config.Config) string) entry {
	return entry{key: key, value: func(c *config.Config) (string, bool) {
		v := get(c)
		return v, v != ""
	}}
}

func intEntry(key string, get func(*config.Config) int) entry {
	return entry{key: key, value: func(c *config.Config) (string, bool) {
		v := get(c)
		return strconv.Itoa(v), v != 0
	}}
}

func boolEntry(key string, get func(*config.Config) bool) entry {
	return entry{key: key, flag: true, value: func(c *config.Config) (string, bool) {
		return "true", get(c)
	}}
}

// entries fixes the canonical key order: endpoints, application, workers,
// limits, lifecycle, ownership.
var entries = []entry{
	stringEntry("http", func(c *config.Config) string { return c.HTTP }),
	stringEntry("socket", func(c *config.Config) string { return c.Socket }),
	stringEntry("chdir", func(c *config.Config) string { return c.Chdir }),
	stringEntry("wsgi-file", func(c *config.Config) string { return c.WSGIFile }),
	stringEntry("module", func(c *config.Config) string { return c.Module }),
	stringEntry("callable", func(c *config.Config) string { return c.Callable }),
	boolEntry("master", func(c *config.Config) bool { return c.Master }),
	intEntry("processes", func(c *config.Config) int { return c.Processes }),
	intEntry("threads", func(c *config.Config) int { return c.Threads }),
	intEntry("harakiri", func(c *config.Config) int { return c.Harakiri }),
	intEntry("max-requests", func(c *config.Config) int { return c.MaxRequests }),
	intEntry("buffer-size", func(c *config.Config) int { return c.BufferSize }),
	intEntry("listen", func(c *config.Config) int { return c.Listen }),
	boolEntry("vacuum", func(c *config.Config) bool { return c.Vacuum }),
	boolEntry("die-on-term", func(c *config.Config) bool { return c.DieOnTerm }),
	boolEntry("enable-threads", func(c *config.Config) bool { return c.EnableThreads }),
	boolEntry("lazy-apps", func(c *config.Config) bool { return c.LazyApps }),
	stringEntry("pidfile", func(c *config.Config) string { return c.Pidfile }),
	stringEntry("logto", func(c *config.Config) string { return c.Logto }),
	stringEntry("uid", func(c *config.Config) string { return c.UID }),
	stringEntry("gid", func(c *config.Config) string { return c.GID }),
}

// Document renders the record as a canonical [uwsgi] document. Keys appear
// in a stable order; static-map lines repeat per mount.
func Document(cfg *config.Config) *inifile.Document {
	doc := inifile.New()

	for _, e := range entries {
		if v, ok := e.value(cfg); ok {
			doc.Set(e.key, v)
		}
	}

	for _, sm := range cfg.StaticMaps {
		doc.Add("static-map", sm.String())
	}

	return doc
}

// Args renders the record as the equivalent uwsgi command line. Boolean
// options are emitted flag-style, without a value.
func Args(cfg *config.Config) []string {
	var args []string

	for _, e := range entries {
		v, ok := e.value(cfg)
		if !ok {
			continue
		}

		if e.flag {
			args = append(args, "--"+e.key)
			continue
		}

		args = append(args, "--"+e.key, v)
	}

	for _, sm := range cfg.StaticMaps {
		args = append(args, "--static-map", sm.String())
	}

	return args
}
