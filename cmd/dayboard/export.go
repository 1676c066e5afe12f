package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dayboard/internal/fsutil"
	"dayboard/internal/reports"
	"dayboard/internal/storage"
)

func exportCmd() *Command {
	fs := newFlagSet("export")
	weekly := fs.BoolP("weekly", "w", false, "generate a weekly report (Sunday to Saturday)")
	dateFlag := fs.String("date", "", "report date as YYYY-MM-DD (default today)")
	format := fs.StringP("format", "f", "markdown", "output format: markdown, md or json")
	output := fs.StringP("output", "o", "", "write to file instead of stdout")

	return &Command{
		Flags: fs,
		Usage: "export [--weekly] [--date DATE] [-f FMT] [-o FILE]",
		Short: "Generate a daily or weekly report",
		Long: `DESCRIPTION:
    Generates a report of todos, habits and the journal entry for a day, or
    a summary of the week containing that day. Reports can be output as
    Markdown (human-readable) or JSON (machine-readable).

EXAMPLES:
    # Today's report in Markdown
    dayboard export

    # Specific date
    dayboard export --date 2025-12-14

    # Weekly JSON report to file
    dayboard export --weekly --format json --output weekly.json
`,
		Exec: func(o *IO, args []string) error {
			f := strings.ToLower(*format)
			switch f {
			case "markdown", "md":
				f = "markdown"
			case "json":
			default:
				return fmt.Errorf("invalid format %q: use markdown or json", *format)
			}

			raw := *dateFlag
			if len(args) > 1 || (len(args) == 1 && raw != "") {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if len(args) == 1 {
				raw = args[0]
			}

			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			day := s.store.Now()
			if raw != "" {
				day, err = storage.ParseDate(raw)
				if err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", raw)
				}
			}

			text, err := renderReport(reports.NewGenerator(s.store), day, *weekly, f)
			if err != nil {
				return err
			}

			if *output == "" {
				o.Printf("%s", text)
				return nil
			}
			if err := writeReport(*output, text); err != nil {
				return err
			}
			o.Printf("Report written to %s\n", *output)
			return nil
		},
	}
}

func renderReport(gen *reports.Generator, day time.Time, weekly bool, format string) (string, error) {
	var report any
	if weekly {
		r := gen.GenerateWeekly(day)
		if format != "json" {
			return reports.FormatWeeklyMarkdown(r), nil
		}
		report = r
	} else {
		r := gen.GenerateDaily(day)
		if format != "json" {
			return reports.FormatDailyMarkdown(r), nil
		}
		report = r
	}
	data, err := reports.FormatJSON(report)
	if err != nil {
		return "", fmt.Errorf("formatting JSON: %w", err)
	}
	return string(data), nil
}

func writeReport(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := fsutil.WriteFileAtomic(path, []byte(text), 0600); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
