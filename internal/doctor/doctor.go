package doctor

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/angeloszaimis/uwsgicfg/config"
)

// Status is the outcome of a single check.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Result is one check outcome.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Doctor runs host sanity checks. The filesystem is injected so checks can
// run against any afero backend.
type Doctor struct {
	fs afero.Fs
}

func New(fs afero.Fs) *Doctor {
	return &Doctor{fs: fs}
}

// Run executes every applicable check and returns the results in a stable
// order.
func (d *Doctor) Run(cfg *config.Config) []Result {
	var results []Result

	if cfg.HTTP != "" {
		results = append(results, d.checkEndpoint("http", cfg.HTTP))
	}

	if cfg.Socket != "" {
		results = append(results, d.checkSocket(cfg.Socket))
	}

	if cfg.Chdir != "" {
		results = append(results, d.checkDir("chdir", cfg.Chdir))
	}

	if cfg.WSGIFile != "" {
		results = append(results, d.checkFile("wsgi-file", cfg.WSGIFile))
	}

	for _, sm := range cfg.StaticMaps {
		results = append(results, d.checkDir("static-map "+sm.Mount, sm.Path))
	}

	if cfg.Pidfile != "" {
		results = append(results, d.checkParentDir("pidfile", cfg.Pidfile))
	}

	if cfg.Logto != "" {
		results = append(results, d.checkParentDir("logto", cfg.Logto))
	}

	results = append(results, d.advisories(cfg)...)

	return results
}

// Failed reports whether any check ended in StatusFail.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}

	return false
}

func (d *Doctor) checkEndpoint(name, addr string) Result {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("%q is not host:port", addr)}
	}

	n, err := strconv.Atoi(port)
	if err != nil || n < 1 || n > 65535 {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("port %q is not in 1-65535", port)}
	}

	return Result{Name: name, Status: StatusOK, Detail: addr}
}

func (d *Doctor) checkSocket(addr string) Result {
	if !strings.HasPrefix(addr, "/") {
		return d.checkEndpoint("socket", addr)
	}

	// The socket itself is created by the runtime; only its directory has
	// to exist in advance.
	return d.checkParentDir("socket", addr)
}

func (d *Doctor) checkDir(name, path string) Result {
	info, err := d.fs.Stat(path)
	if err != nil {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("%s does not exist", path)}
	}

	if !info.IsDir() {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("%s is not a directory", path)}
	}

	return Result{Name: name, Status: StatusOK, Detail: path}
}

func (d *Doctor) checkFile(name, path string) Result {
	info, err := d.fs.Stat(path)
	if err != nil {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("%s does not exist", path)}
	}

	if info.IsDir() {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("%s is a directory", path)}
	}

	return Result{Name: name, Status: StatusOK, Detail: path}
}

func (d *Doctor) checkParentDir(name, path string) Result {
	parent := filepath.Dir(path)

	info, err := d.fs.Stat(parent)
	if err != nil || !info.IsDir() {
		return Result{Name: name, Status: StatusFail,
			Detail: fmt.Sprintf("parent directory %s does not exist", parent)}
	}

	return Result{Name: name, Status: StatusOK, Detail: path}
}

func (d *Doctor) advisories(cfg *config.Config) []Result {
	var results []Result

	if cfg.Harakiri == 0 {
		results = append(results, Result{Name: "harakiri", Status: StatusWarn,
			Detail: "disabled: a stuck worker will never be killed"})
	}

	if cfg.MaxRequests == 0 {
		results = append(results, Result{Name: "max-requests", Status: StatusWarn,
			Detail: "disabled: workers are never recycled"})
	}

	if cfg.Processes > 1 && !cfg.Master {
		results = append(results, Result{Name: "master", Status: StatusWarn,
			Detail: "multiple workers without a master process"})
	}

	return results
}
