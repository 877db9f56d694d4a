package doconv_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/alnah/go-doconv"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake plugins
// ---------------------------------------------------------------------------

// callLog records plugin invocations across instances.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// fakePlugin appends a marker to its input and writes it to the output hint.
type fakePlugin struct {
	name   string
	convs  []doconv.Conversion
	depErr error
	fail   error               // returned by every Convert call
	failOn map[string]error    // keyed by "from->to"
	output func(string) string // overrides the returned path
	log    *callLog
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) CheckDependencies(context.Context) error { return p.depErr }

func (p *fakePlugin) SupportedConversions() []doconv.Conversion { return p.convs }

func (p *fakePlugin) Convert(_ context.Context, req doconv.Request) (string, error) {
	if p.log != nil {
		p.log.add(fmt.Sprintf("%s:%s->%s", p.name, req.From, req.To))
	}
	if p.fail != nil {
		return "", p.fail
	}
	if err := p.failOn[string(req.From)+"->"+string(req.To)]; err != nil {
		return "", err
	}
	if p.output != nil {
		return p.output(req.OutputHint), nil
	}

	data, err := os.ReadFile(req.InputPath)
	if err != nil {
		return "", err
	}
	data = append(data, fmt.Sprintf("|%s", req.To)...)
	if err := os.WriteFile(req.OutputHint, data, 0o644); err != nil {
		return "", err
	}
	return req.OutputHint, nil
}

// conv builds a Conversion from two format strings.
func conv(from, to string) doconv.Conversion {
	return doconv.Conversion{From: doconv.Format(from), To: doconv.Format(to)}
}

// newRegistry registers the plugins in order.
func newRegistry(t *testing.T, plugins ...*fakePlugin) *doconv.Registry {
	t.Helper()

	reg := doconv.NewRegistry()
	for _, p := range plugins {
		if err := reg.Register(p.name, func() (doconv.Plugin, error) { return p, nil }); err != nil {
			t.Fatalf("Register(%q) error = %v", p.name, err)
		}
	}
	return reg
}

// graphOf loads the registry and builds its graph.
func graphOf(t *testing.T, reg *doconv.Registry) *doconv.Graph {
	t.Helper()

	caps, err := reg.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	return doconv.BuildGraph(caps)
}

// writeInput creates dir/name with content and returns its path.
func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing input: %v", err)
	}
	return path
}

// listDir returns sorted base names in dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func formats(ss ...string) []doconv.Format {
	out := make([]doconv.Format, len(ss))
	for i, s := range ss {
		out[i] = doconv.Format(s)
	}
	return out
}

func equalFormats(a, b []doconv.Format) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
