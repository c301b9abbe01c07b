package cmd

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/iksnae/complaint-desk/testutil"
)

// fakePrompter answers prompts from canned values
type fakePrompter struct {
	lines     []string
	passwords []string
	confirm   bool
	asked     []string
}

func (p *fakePrompter) Confirm(label string) (bool, error) {
	p.asked = append(p.asked, label)
	return p.confirm, nil
}

func (p *fakePrompter) Password(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.passwords) == 0 {
		return "", io.EOF
	}
	pw := p.passwords[0]
	p.passwords = p.passwords[1:]
	return pw, nil
}

func (p *fakePrompter) Line(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.lines) == 0 {
		return "", io.EOF
	}
	line := p.lines[0]
	p.lines = p.lines[1:]
	return line, nil
}

type testEnv struct {
	t        *testing.T
	fake     *testutil.FakeAPI
	home     string
	apiURL   string
	prompter *fakePrompter
}

// newTestEnv points the console at a fresh data directory and a fake
// backend. A non-empty token or role is stored before the first run.
func newTestEnv(t *testing.T, token, role string) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("COMPLAINT_DESK_HOME", home)
	if token != "" || role != "" {
		testutil.CreateStoreFixture(t, filepath.Join(home, "credentials.db"), token, role)
	}

	fake := testutil.NewFakeAPI(t)
	return &testEnv{
		t:        t,
		fake:     fake,
		home:     home,
		apiURL:   fake.URL(),
		prompter: &fakePrompter{},
	}
}

func (e *testEnv) run(args ...string) (string, string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--api-url", e.apiURL, "--retries", "0"}, args...)
	err := run(context.Background(), full, options{
		stdout:   &stdout,
		stderr:   &stderr,
		prompter: e.prompter,
	})
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) storedCredentials() map[string]string {
	e.t.Helper()
	return testutil.ReadStoreFixture(e.t, filepath.Join(e.home, "credentials.db"))
}
