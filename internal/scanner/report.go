package scanner

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shotset/revscan/internal/pattern"
)

// Report is the machine-readable shape of a scan or resolve run.
// Fields are omitted when the command that produced the report did not
// compute them.
type Report struct {
	Dir     string                `json:"dir"`
	Cells   []pattern.CellPattern `json:"cells,omitempty"`
	Radixes []string              `json:"radixes,omitempty"`
	Radix   string                `json:"radix,omitempty"`
	Slots   []string              `json:"slots,omitempty"`
	Matches []Match               `json:"matches,omitempty"`
}

// Print outputs the report. With jsonOutput it prints the Report as
// indented JSON; otherwise a compact human-readable listing.
func (r Report) Print(jsonOutput bool) {
	if jsonOutput {
		output, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		fmt.Fprintln(os.Stdout, string(output))
		return
	}

	if len(r.Cells) > 0 {
		fmt.Fprintf(os.Stdout, "Pattern cells (%d):\n", len(r.Cells))
		for i, c := range r.Cells {
			fmt.Fprintf(os.Stdout, "  [%d] %-12s tail=%q  pattern=%s\n", i, c.Label, c.Tail, c.Pattern)
		}
	}
	if len(r.Radixes) > 0 {
		fmt.Fprintf(os.Stdout, "Comparable sets in %s (%d):\n", r.Dir, len(r.Radixes))
		for _, radix := range r.Radixes {
			fmt.Fprintf(os.Stdout, "  %s\n", radix)
		}
	}
	if r.Radix != "" && len(r.Slots) == 0 {
		fmt.Fprintf(os.Stdout, "Radix: %s\n", r.Radix)
	}
	if r.Radix != "" && len(r.Slots) > 0 {
		fmt.Fprintf(os.Stdout, "Files for %q:\n", r.Radix)
		for i, slot := range r.Slots {
			if slot == "" {
				fmt.Fprintf(os.Stdout, "  [%d] (missing)\n", i)
				continue
			}
			fmt.Fprintf(os.Stdout, "  [%d] %s\n", i, slot)
		}
	}
	for _, m := range r.Matches {
		fmt.Fprintf(os.Stdout, "%s: %d sets\n", m.Dir, len(m.Radixes))
		for _, radix := range m.Radixes {
			fmt.Fprintf(os.Stdout, "  %s\n", radix)
		}
	}
}
