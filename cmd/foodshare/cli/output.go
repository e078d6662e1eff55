package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// wantJSON reports whether output should be JSON. In auto mode JSON is used
// unless stdout is a terminal.
func wantJSON(cmd *cobra.Command) (bool, error) {
	switch outputFlag {
	case "json":
		return true, nil
	case "table":
		return false, nil
	case "auto", "":
		f, ok := cmd.OutOrStdout().(*os.File)
		return !ok || !term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("unknown output format %q", outputFlag)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// render prints v as JSON or hands a table writer to table.
func render(cmd *cobra.Command, v interface{}, table func(w *tabwriter.Writer)) error {
	asJSON, err := wantJSON(cmd)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(cmd.OutOrStdout(), v)
	}
	w := newTable(cmd.OutOrStdout())
	table(w)
	return w.Flush()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
