package session

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/networktocode/ntc-tesuto/internal/tesuto"
)

// writeTable renders numbered rows under the given headers.
func writeTable(out *tabwriter.Writer, headers []string, rows [][]string) {
	cols := append([]string{"#"}, headers...)
	fmt.Fprintln(out, strings.Join(cols, "\t"))

	dashes := make([]string, len(cols))
	for i, col := range cols {
		dashes[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(out, strings.Join(dashes, "\t"))

	for i, row := range rows {
		fmt.Fprintf(out, "%d\t%s\n", i+1, strings.Join(row, "\t"))
	}
}

func (s *Session) printEmulationTable(emulations []tesuto.Emulation) {
	rows := make([][]string, 0, len(emulations))
	for _, e := range emulations {
		ends := "-"
		if t := e.EndingTime(); !t.IsZero() {
			ends = t.Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{e.Name, e.Region, e.Status, ends})
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 3, ' ', 0)
	writeTable(w, []string{"Name", "Region", "Status", "Ends (UTC)"}, rows)
	_ = w.Flush() // nolint:errcheck // flush error not actionable in CLI display context
}

func (s *Session) printDeviceTable(devices []tesuto.Device) {
	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.Name, d.VendorName, d.ModelName, enabledLabel(d.IsEnabled)})
	}

	w := tabwriter.NewWriter(s.out, 0, 0, 3, ' ', 0)
	writeTable(w, []string{"Name", "Vendor", "Model", "Enabled"}, rows)
	_ = w.Flush() // nolint:errcheck // flush error not actionable in CLI display context
}
