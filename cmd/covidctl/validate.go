package main

import (
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/covidtracking"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check daily feed fixtures for integrity",
		Long: `validate decodes each daily feed file and checks that every row has a
valid date, that each region's rows run newest first, that no region reports
the same day twice, and that the file is not empty.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				p := validateFile(path)
				p.report(out)
				if !p.passed() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(args))
			}
			return nil
		},
	}
}

// phase tracks pass/fail for one validated file.
type phase struct {
	name    string
	records int
	regions int
	errors  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func (p *phase) report(w io.Writer) {
	if p.passed() {
		color.New(color.FgGreen).Fprint(w, "PASS")
		fmt.Fprintf(w, "  %s (%d records, %d regions)\n", p.name, p.records, p.regions)
		return
	}
	color.New(color.FgRed).Fprint(w, "FAIL")
	fmt.Fprintf(w, "  %s\n", p.name)
	for _, e := range p.errors {
		fmt.Fprintf(w, "      %s\n", e)
	}
}

func validateFile(path string) *phase {
	p := &phase{name: path}

	f, err := os.Open(path)
	if err != nil {
		p.errorf("open: %v", err)
		return p
	}
	defer f.Close()

	records, rowErrs, err := covidtracking.Decode(f)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for _, re := range rowErrs {
		p.errorf("%v", re)
	}
	checkRecords(p, records)
	return p
}

// checkRecords verifies a decoded feed: non-empty, and per region strictly
// newest first, which also rules out duplicate days.
func checkRecords(p *phase, records []domain.Record) {
	p.records = len(records)
	if len(records) == 0 {
		p.errorf("no records")
		return
	}

	type seen struct {
		last domain.Record
		days map[int64]bool
	}
	byRegion := make(map[string]*seen)
	for _, r := range records {
		s, ok := byRegion[r.State]
		if !ok {
			byRegion[r.State] = &seen{last: r, days: map[int64]bool{r.Date.Unix(): true}}
			continue
		}
		if s.days[r.Date.Unix()] {
			p.errorf("%s: duplicate day %s", domain.ScopeLabel(r.State), domain.FormatDate(r))
		} else if !r.Date.Before(s.last.Date) {
			p.errorf("%s: %s follows %s, want newest first",
				domain.ScopeLabel(r.State), domain.FormatDate(r), domain.FormatDate(s.last))
		}
		s.days[r.Date.Unix()] = true
		s.last = r
	}
	p.regions = len(byRegion)
}
