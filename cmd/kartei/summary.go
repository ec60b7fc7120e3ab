package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"kartei/internal/pipeline"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// renderRunReport formats the end-of-run summary. The heading is colored
// when writing to a terminal.
func renderRunReport(report *pipeline.RunReport, out io.Writer) string {
	heading := fmt.Sprintf("Run %s (%s) finished in %s",
		shortID(report.RunID), report.Level, report.Duration.Round(time.Second))
	if shouldColorize(out) {
		color := ansiGreen
		if report.Errors > 0 {
			color = ansiRed
		}
		heading = color + heading + ansiReset
	}

	rows := [][]string{
		{"Records loaded", strconv.Itoa(report.RecordsLoaded)},
		{"Rows rejected", strconv.Itoa(report.RecordsRejected)},
		{"Tenses dropped for level", strconv.Itoa(report.RecordsDropped)},
		{"Cards built", strconv.Itoa(report.CardsBuilt)},
		{"Notes added", strconv.Itoa(report.NotesAdded)},
		{"Duplicates skipped", strconv.Itoa(report.NotesSkipped)},
		{"Media files registered", strconv.Itoa(report.MediaRegistered)},
		{"Audio generated / reused", fmt.Sprintf("%d / %d", report.Enrichment.AudioGenerated, report.Enrichment.AudioReused)},
		{"Images generated / reused", fmt.Sprintf("%d / %d", report.Enrichment.ImageGenerated, report.Enrichment.ImageReused)},
		{"Errors", strconv.Itoa(report.Errors)},
	}

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	return b.String()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
