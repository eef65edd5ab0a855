package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// render prints v as indented JSON or as a tab-aligned table.
func (a *app) render(v interface{}, header []string, rows [][]string) error {
	if strings.EqualFold(a.cfg.GetString("output"), "json") {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(a.out, "No results.")
		return err
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func (a *app) say(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format+"\n", args...)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func deref(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}

func truncate(value string, limit int) string {
	runes := []rune(strings.Join(strings.Fields(value), " "))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit-1]) + "…"
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
