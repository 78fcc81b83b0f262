package plugin

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/tliron/commonlog/simple"
	lua "github.com/yuin/gopher-lua"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hooks.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// global reads a Lua global through the worker goroutine.
func global(t *testing.T, h *Hooks, name string) string {
	t.Helper()
	result := make(chan string, 1)
	h.queue <- func(L *lua.LState) {
		result <- L.GetGlobal(name).String()
	}
	select {
	case v := <-result:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out reading lua global")
		return ""
	}
}

func TestLoadMissingScript(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.lua")); err == nil {
		t.Error("expected error for missing script")
	}
}

func TestLoadBadScript(t *testing.T) {
	path := writeScript(t, `this is not lua`)
	if _, err := Load(path); err == nil {
		t.Error("expected error for unparseable script")
	}
}

func TestHooksInvoked(t *testing.T) {
	path := writeScript(t, `
events = ""
function on_narrow(source, language)
  events = events .. "narrow:" .. source .. ":" .. language .. ";"
end
function on_sync(source)
  events = events .. "sync:" .. source .. ";"
end
function on_widen(source)
  events = events .. "widen:" .. source .. ";"
end
`)
	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	h.NarrowStarted("file:///a.js", "javascript")
	h.Synced("file:///a.js")
	h.Widened("file:///a.js")

	want := "narrow:file:///a.js:javascript;sync:file:///a.js;widen:file:///a.js;"
	if got := global(t, h, "events"); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}
}

func TestMissingHookFunctionsAreSkipped(t *testing.T) {
	path := writeScript(t, `
count = 0
function on_sync(source) count = count + 1 end
`)
	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	// No on_narrow or on_widen defined; these must be silent no-ops.
	h.NarrowStarted("x", "y")
	h.Widened("x")
	h.Synced("x")

	if got := global(t, h, "count"); got != "1" {
		t.Errorf("count = %q, want 1", got)
	}
}

func TestFailingHookDoesNotPropagate(t *testing.T) {
	path := writeScript(t, `
after = "not yet"
function on_narrow(source, language) error("boom") end
function on_sync(source) after = "survived" end
`)
	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer h.Close()

	h.NarrowStarted("x", "y")
	h.Synced("x")

	if got := global(t, h, "after"); got != "survived" {
		t.Errorf("after = %q: a failing hook must not kill the worker", got)
	}
}

func TestCloseTwice(t *testing.T) {
	path := writeScript(t, `function on_widen(s) end`)
	h, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	h.Close()
	h.Close()

	// Events after close are dropped, not a crash.
	h.Widened("x")
}
