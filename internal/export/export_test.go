package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

func TestIssueMarkdown(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	issue := &atlassian.Issue{Key: "OPS-1"}
	issue.Fields.Summary = "rotate keys"
	issue.Fields.Status.Name = "Open"
	issue.Fields.Description = "the old key is dead"
	issue.Fields.Comment.Comments = []atlassian.IssueComment{{Body: "done"}}
	issue.Fields.Comment.Comments[0].Author.DisplayName = "sam"
	issue.Fields.Attachment = []atlassian.IssueAttachment{{Filename: "prod.env", Content: "https://jira.example.com/att/1"}}

	p, err := w.Issue(issue, types.ItemRef{ID: "OPS-1", CollectionKey: "OPS", Kind: types.KindIssue})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(p) != "OPS-1.md" || filepath.Base(filepath.Dir(p)) != "OPS" {
		t.Fatalf("unexpected layout: %s", p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{"# OPS-1: rotate keys", "## Description", "### sam", "[prod.env](https://jira.example.com/att/1)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPageMarkdown(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	page := &atlassian.Page{ID: "42", Title: "Runbook"}
	page.Space.Key = "SP0"
	page.Body.Storage.Value = "<p>hi</p>"
	page.AttachmentNames = []string{"dump.sql"}

	p, err := w.Page(page, types.ItemRef{ID: "42", CollectionKey: "SP0", Kind: types.KindPage})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	b, _ := os.ReadFile(p)
	if !strings.Contains(string(b), "# Runbook") || !strings.Contains(string(b), "- dump.sql") {
		t.Fatalf("content wrong:\n%s", b)
	}
}

func TestSanitizeHostileID(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	issue := &atlassian.Issue{Key: "x"}
	p, err := w.Issue(issue, types.ItemRef{ID: "../../etc/passwd", CollectionKey: "OPS"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.Contains(filepath.Base(p), "/") || !strings.HasPrefix(p, w.Dir()) {
		t.Fatalf("path escaped export dir: %s", p)
	}
}
