package tui

import (
	"fmt"
	"strings"
)

func (m Model) View() string {
	var sb strings.Builder

	title := "issuehound — findings"
	if m.viewingCached {
		title += fmt.Sprintf(" (cached %s)", m.cachedTimestamp.Format("2006-01-02 15:04"))
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")

	if m.scanning {
		sb.WriteString(m.spinner.View() + " rescanning...\n")
	}
	if m.searching {
		sb.WriteString(m.searchInput.View() + "\n")
	}

	if len(m.visible) == 0 {
		sb.WriteString("\n")
		sb.WriteString(emptyTextStyle.Render("No findings. Press r to rescan, q to quit."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(tableBorderStyle.Render(m.table.View()))
		sb.WriteString("\n")
		sb.WriteString(m.detailView())
	}

	status := m.status
	if status == "" {
		status = fmt.Sprintf("%d/%d findings", len(m.visible), len(m.findings))
	}
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(" " + status + " "))
	sb.WriteString("\n")
	sb.WriteString("q quit · / search · s reveal · c copy · r rescan")
	return sb.String()
}

func (m Model) detailView() string {
	f, ok := m.selected()
	if !ok {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Item:     %s/%s (%s)\n", f.Ref.CollectionKey, f.Ref.ID, f.Ref.Kind)
	if f.Ref.Title != "" {
		fmt.Fprintf(&sb, "Title:    %s\n", f.Ref.Title)
	}
	fmt.Fprintf(&sb, "Rule:     %s  [%s/%s]\n", f.Rule, f.Category, f.Severity)
	fmt.Fprintf(&sb, "Source:   %s @%d\n", f.Source, f.Offset)

	match := mask(f.Matched)
	if m.showSecrets {
		match = f.Matched
	}
	sb.WriteString("Match:    ")
	sb.WriteString(matchStyle.Render(match))
	sb.WriteString("\n")
	if m.showSecrets && f.Display != "" {
		sb.WriteString("\n")
		sb.WriteString(highlightSnippet(f.Display))
		sb.WriteString("\n")
	}
	return sb.String()
}
