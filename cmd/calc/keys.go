package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"go-calculator/internal/input"
)

var (
	keysStyle    string
	keysMarkdown bool
)

// bindingsMarkdown renders the key table as markdown.
func bindingsMarkdown() string {
	var b strings.Builder
	b.WriteString("# Key bindings\n\n")
	b.WriteString("| Keys | Action | Does |\n")
	b.WriteString("|------|--------|------|\n")
	for _, kb := range input.Bindings() {
		keys := make([]string, len(kb.Keys))
		for i, k := range kb.Keys {
			keys[i] = "`" + k + "`"
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", strings.Join(keys, " "), kb.Action, kb.Help)
	}
	b.WriteString("\nIn the keypad, `?` toggles help and `q` quits. Buttons can be clicked.\n")
	b.WriteString("In `calc eval`, write named keys as `<enter>`, `<bs>`, `<del>` and `<esc>`.\n")
	return b.String()
}

func runKeys(cmd *cobra.Command, args []string) error {
	md := bindingsMarkdown()
	if keysMarkdown {
		_, err := fmt.Fprint(cmd.OutOrStdout(), md)
		return err
	}

	styleOpt := glamour.WithAutoStyle()
	if keysStyle != "auto" {
		styleOpt = glamour.WithStandardStyle(keysStyle)
	}
	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("rendering key table: %w", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
