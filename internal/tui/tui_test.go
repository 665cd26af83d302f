package tui

import (
	"testing"

	"github.com/gitscope/gitscope/internal/imagediff"
)

func TestInitArmsImageListener(t *testing.T) {
	m := model{runner: imagediff.NewRunner()}
	if m.Init() == nil {
		t.Fatal("Init returned no command")
	}
}

func TestImageResultInstallsAndRearms(t *testing.T) {
	m := model{runner: imagediff.NewRunner()}
	res := &imagediff.Result{Width: 2, Height: 2}

	next, cmd := m.Update(imageResultMsg{Result: res, Gen: m.runner.Generation()})
	nm := next.(model)
	if nm.imgResult != res {
		t.Error("current-generation result was not installed")
	}
	if nm.pending {
		t.Error("pending not cleared after delivery")
	}
	if cmd == nil {
		t.Error("listener not re-armed after delivery")
	}
}

// A stale delivery must not clobber state, but the listener is re-armed
// either way so the next result can arrive.
func TestStaleImageResultRearmsListener(t *testing.T) {
	m := model{runner: imagediff.NewRunner(), pending: true}

	next, cmd := m.Update(imageResultMsg{Result: &imagediff.Result{}, Gen: m.runner.Generation() + 1})
	nm := next.(model)
	if nm.imgResult != nil {
		t.Error("stale result was installed")
	}
	if !nm.pending {
		t.Error("stale delivery cleared pending")
	}
	if cmd == nil {
		t.Error("listener not re-armed after stale delivery")
	}
}
