package todo

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/spf13/cobra"
)

func statusIcon(status string) string {
	switch status {
	case "DONE":
		return "[x]"
	case "IN PROGRESS":
		return "[>]"
	default:
		return "[ ]"
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printView renders the list section, then the form section. force shows the
// list even while it is hidden for an edit.
func printView(cmd *cobra.Command, v services.View, force bool) error {
	w := cmd.OutOrStdout()
	if cli.JSONOutput() {
		return printJSON(w, v)
	}

	if v.ListVisible || force {
		printTasks(w, v)
	} else {
		fmt.Fprintf(w, "List hidden while editing #%s (use --show, or \"todos cancel\").\n", v.EditingID)
	}
	fmt.Fprintln(w)
	printDraft(w, v)
	printNotice(cmd, v)
	return nil
}

func printTasks(w io.Writer, v services.View) {
	header := fmt.Sprintf("Todos (%d)", len(v.Tasks))
	if v.Filter != "" {
		header = fmt.Sprintf("Todos (%d of %d, priority %s)", len(v.Tasks), v.Total, v.Filter)
	}
	fmt.Fprintln(w, header+":")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, "No todos found.")
		return
	}
	for _, t := range v.Tasks {
		line := fmt.Sprintf("%s #%s %s [%s]", statusIcon(t.Status), t.ID, t.Description, t.Priority)
		if t.Category != "" {
			line += " (" + t.Category + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func printDraft(w io.Writer, v services.View) {
	if v.EditingID != "" {
		fmt.Fprintf(w, "Editing #%s:\n", v.EditingID)
	} else {
		fmt.Fprintln(w, "Draft:")
	}
	fmt.Fprintf(w, "  todo:     %q\n", v.Draft.Description)
	fmt.Fprintf(w, "  priority: %s\n", v.Draft.Priority)
	fmt.Fprintf(w, "  status:   %s\n", v.Draft.Status)
	if v.Draft.Category != "" {
		fmt.Fprintf(w, "  category: %s\n", v.Draft.Category)
	}
}

func printNotice(cmd *cobra.Command, v services.View) {
	if v.Notice == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "! %s: %s\n", v.Notice.Kind, v.Notice.Message)
}
