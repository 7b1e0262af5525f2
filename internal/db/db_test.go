package db

import (
	"path/filepath"
	"testing"
)

func TestKVRoundTrip(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	if _, ok, err := d.GetValue("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := d.SetValue("k", "v1"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if v, ok, _ := d.GetValue("k"); !ok || v != "v1" {
		t.Fatalf("GetValue: got %q ok=%v", v, ok)
	}

	// Upsert replaces.
	if err := d.SetValue("k", "v2"); err != nil {
		t.Fatalf("SetValue upsert: %v", err)
	}
	if v, _, _ := d.GetValue("k"); v != "v2" {
		t.Fatalf("upsert: got %q", v)
	}

	if err := d.DeleteValue("k"); err != nil {
		t.Fatalf("DeleteValue: %v", err)
	}
	if _, ok, _ := d.GetValue("k"); ok {
		t.Fatal("key survived delete")
	}
	// Deleting again is fine.
	if err := d.DeleteValue("k"); err != nil {
		t.Fatalf("DeleteValue missing: %v", err)
	}
}

func TestOpenOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "widget.db")

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := d.SetValue("k", "persisted"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	d.Close()

	// Reopen and read back.
	d2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d2.Close()
	if v, ok, _ := d2.GetValue("k"); !ok || v != "persisted" {
		t.Fatalf("value did not survive reopen: %q ok=%v", v, ok)
	}
}
