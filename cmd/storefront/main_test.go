package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func Test_dataDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := dataDir()
	want := filepath.Join(dir, "salesmatrix")
	if got != want {
		t.Fatalf("dataDir=%q, want %q", got, want)
	}
}

func Test_newApp_InMemory(t *testing.T) {
	// empty data dir means an in-memory store; empty remote means offline
	a, err := newApp("", "")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if _, ok := a.sessions.Current(); ok {
		t.Fatalf("fresh store must have no session")
	}
	products := a.catalog.Load(context.Background())
	if len(products) == 0 {
		t.Fatalf("catalog must resolve even fully offline")
	}
}

func Test_newApp_OnDisk(t *testing.T) {
	dir := t.TempDir()
	a, err := newApp(filepath.Join(dir, "data"), "")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	a.close()
}

func Test_currentUsername_Scoped(t *testing.T) {
	// indirect check of the session plumbing used by chat and beat
	a, err := newApp("", "")
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	defer a.close()

	if _, err := a.accounts.Register(context.Background(), "alice", "a@b.c", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	name, ok := a.sessions.CurrentName()
	if !ok || !strings.EqualFold(name, "alice") {
		t.Fatalf("CurrentName=%q ok=%v", name, ok)
	}
}
