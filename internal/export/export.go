// Package export writes fetched issues and pages to per-item markdown files
// for offline review.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

type Writer struct {
	dir string
}

func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

func (w *Writer) Dir() string { return w.dir }

// Issue renders one issue to <collection>/<id>.md and returns the path.
func (w *Writer) Issue(issue *atlassian.Issue, ref types.ItemRef) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s: %s\n\n", issue.Key, issue.Fields.Summary)
	fmt.Fprintf(&b, "- Status: %s\n", issue.Fields.Status.Name)
	fmt.Fprintf(&b, "- Created: %s\n", issue.Fields.Created)
	fmt.Fprintf(&b, "- Updated: %s\n\n", issue.Fields.Updated)

	if issue.Fields.Description != "" {
		b.WriteString("## Description\n\n")
		b.WriteString(issue.Fields.Description)
		b.WriteString("\n\n")
	}
	if len(issue.Fields.Comment.Comments) > 0 {
		b.WriteString("## Comments\n\n")
		for _, c := range issue.Fields.Comment.Comments {
			fmt.Fprintf(&b, "### %s (%s)\n\n%s\n\n", c.Author.DisplayName, c.Created, c.Body)
		}
	}
	if len(issue.Fields.Attachment) > 0 {
		b.WriteString("## Attachments\n\n")
		for _, a := range issue.Fields.Attachment {
			fmt.Fprintf(&b, "- [%s](%s)\n", a.Filename, a.Content)
		}
		b.WriteString("\n")
	}
	return w.write(ref, b.String())
}

// Page renders one Confluence page to <space>/<id>.md and returns the path.
func (w *Writer) Page(page *atlassian.Page, ref types.ItemRef) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", page.Title)
	fmt.Fprintf(&b, "- Space: %s\n", page.Space.Key)
	fmt.Fprintf(&b, "- ID: %s\n\n", page.ID)

	if v := page.Body.Storage.Value; v != "" {
		b.WriteString("## Body\n\n")
		b.WriteString(v)
		b.WriteString("\n\n")
	}
	if len(page.AttachmentNames) > 0 {
		b.WriteString("## Attachments\n\n")
		for _, name := range page.AttachmentNames {
			fmt.Fprintf(&b, "- %s\n", name)
		}
		b.WriteString("\n")
	}
	return w.write(ref, b.String())
}

func (w *Writer) write(ref types.ItemRef, content string) (string, error) {
	sub := sanitize(ref.CollectionKey)
	if sub == "" {
		sub = "unsorted"
	}
	dir := filepath.Join(w.dir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	p := filepath.Join(dir, sanitize(ref.ID)+".md")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// sanitize keeps filenames portable: anything outside [A-Za-z0-9._-]
// becomes an underscore.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}
