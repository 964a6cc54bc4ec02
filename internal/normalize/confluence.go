package normalize

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

var (
	cdataBlock = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	xmlTag     = regexp.MustCompile(`(?s)<[^>]*>`)
)

// StripStorageFormat reduces Confluence storage-format XHTML to plain text.
// CDATA sections (code macros keep their payload there) are swapped for
// placeholders before tag stripping so their contents pass through verbatim,
// even when the payload itself contains angle brackets.
func StripStorageFormat(s string) string {
	var saved []string
	s = cdataBlock.ReplaceAllStringFunc(s, func(m string) string {
		saved = append(saved, cdataBlock.FindStringSubmatch(m)[1])
		return fmt.Sprintf("\n\x00%d\x00\n", len(saved)-1)
	})
	s = xmlTag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	for i, payload := range saved {
		s = strings.Replace(s, fmt.Sprintf("\x00%d\x00", i), payload, 1)
	}
	return s
}

// Page flattens a fetched Confluence page into ordered content blocks:
// title and body first, attachment names last.
func Page(page *atlassian.Page, ref types.ItemRef) ([]types.ContentBlock, error) {
	if page == nil {
		return nil, errMalformed(ref, "empty page payload")
	}
	var blocks []types.ContentBlock

	body := page.Title
	if v := page.Body.Storage.Value; v != "" {
		body += "\n" + StripStorageFormat(v)
	}
	if strings.TrimSpace(body) != "" {
		blocks = append(blocks, types.ContentBlock{Ref: ref, Source: types.FieldBody, Text: body})
	}
	for _, name := range page.AttachmentNames {
		if name == "" {
			continue
		}
		blocks = append(blocks, types.ContentBlock{Ref: ref, Source: types.FieldAttachmentName, Text: name})
	}
	return blocks, nil
}
