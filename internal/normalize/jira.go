package normalize

import (
	"regexp"
	"strings"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

var (
	// [text|http://example.com] and [http://example.com]; both halves are
	// kept so link targets still reach the scanner.
	jiraLink = regexp.MustCompile(`\[([^]|]*)\|([^]]+)\]`)
	jiraBare = regexp.MustCompile(`\[([^]]+)\]`)

	// Block macros: {code}, {code:java}, {noformat}, {quote}, {panel:title=x}.
	// Only the braces go; the fenced text stays verbatim.
	jiraMacro = regexp.MustCompile(`\{(code|noformat|quote|panel|color)(:[^}]*)?\}`)
)

// StripJiraMarkup removes wiki markup from issue text. Fence and link
// syntax is dropped but never the characters between markers, so a token
// pasted inside {code} blocks survives intact.
func StripJiraMarkup(s string) string {
	s = jiraLink.ReplaceAllString(s, "$1 $2")
	s = jiraBare.ReplaceAllString(s, "$1")
	s = jiraMacro.ReplaceAllString(s, "")
	return s
}

// Issue flattens a fetched issue into ordered content blocks: body first,
// comments in document order, attachment names last.
func Issue(issue *atlassian.Issue, ref types.ItemRef) ([]types.ContentBlock, error) {
	if issue == nil {
		return nil, errMalformed(ref, "empty issue payload")
	}
	var blocks []types.ContentBlock

	body := issue.Fields.Summary
	if d := issue.Fields.Description; d != "" {
		body += "\n" + StripJiraMarkup(d)
	}
	if strings.TrimSpace(body) != "" {
		blocks = append(blocks, types.ContentBlock{Ref: ref, Source: types.FieldBody, Text: body})
	}
	for _, c := range issue.Fields.Comment.Comments {
		if strings.TrimSpace(c.Body) == "" {
			continue
		}
		blocks = append(blocks, types.ContentBlock{Ref: ref, Source: types.FieldComment, Text: StripJiraMarkup(c.Body)})
	}
	for _, a := range issue.Fields.Attachment {
		if a.Filename == "" {
			continue
		}
		blocks = append(blocks, types.ContentBlock{Ref: ref, Source: types.FieldAttachmentName, Text: a.Filename})
	}
	return blocks, nil
}
