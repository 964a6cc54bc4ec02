package cache

import (
	"testing"

	"github.com/issuehound/issuehound/internal/types"
)

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	// initial load returns an initialized empty DB plus the read error
	db, _ := Load(dir, "jira.example.com")
	if db.Entries == nil {
		t.Fatalf("expected entries map initialized")
	}
	db.Entries["OPS/OPS-1"] = "deadbeefdeadbeef"
	if err := Save(dir, "jira.example.com", db); err != nil {
		t.Fatalf("save: %v", err)
	}
	db2, err := Load(dir, "jira.example.com")
	if err != nil {
		t.Fatalf("load after save: %v", err)
	}
	if got := db2.Entries["OPS/OPS-1"]; got != "deadbeefdeadbeef" {
		t.Fatalf("unexpected entry: %q", got)
	}
}

func TestHostsIsolated(t *testing.T) {
	dir := t.TempDir()
	db := DB{Entries: map[string]string{"OPS/OPS-1": "aaaa"}}
	if err := Save(dir, "jira.example.com", db); err != nil {
		t.Fatalf("save: %v", err)
	}
	other, _ := Load(dir, "wiki.example.com")
	if len(other.Entries) != 0 {
		t.Fatalf("entries leaked across hosts: %v", other.Entries)
	}
}

func TestHashStableAndSensitive(t *testing.T) {
	ref := types.ItemRef{ID: "OPS-1", CollectionKey: "OPS"}
	blocks := []types.ContentBlock{
		{Ref: ref, Source: types.FieldBody, Text: "hello"},
		{Ref: ref, Source: types.FieldComment, Text: "world"},
	}
	h1 := Hash(blocks)
	h2 := Hash(blocks)
	if h1 != h2 {
		t.Fatalf("hash not stable: %s vs %s", h1, h2)
	}
	blocks[1].Text = "world!"
	if Hash(blocks) == h1 {
		t.Fatalf("hash ignored content change")
	}
}

func TestSaveLoadResults(t *testing.T) {
	dir := t.TempDir()
	findings := []types.Finding{{Ref: types.ItemRef{ID: "OPS-1"}, Rule: "github_token"}}
	if err := SaveResults(dir, "jira.example.com", findings); err != nil {
		t.Fatalf("save results: %v", err)
	}
	got, err := LoadResults(dir, "jira.example.com")
	if err != nil {
		t.Fatalf("load results: %v", err)
	}
	if got.Count != 1 || got.Findings[0].Rule != "github_token" {
		t.Fatalf("unexpected results: %+v", got)
	}
}
