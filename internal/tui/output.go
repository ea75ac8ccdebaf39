package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat is the -o flag value
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
)

// Output writes command results as styled text or JSON. Status messages
// are suppressed in JSON mode so the output stays machine readable.
type Output struct {
	format OutputFormat
	w      io.Writer
}

// NewOutput writes table output to stdout
func NewOutput() *Output {
	return &Output{format: FormatTable, w: os.Stdout}
}

// NewOutputWithFormat writes output of the given format to stdout
func NewOutputWithFormat(format OutputFormat) *Output {
	return &Output{format: format, w: os.Stdout}
}

// SetWriter redirects the output
func (o *Output) SetWriter(w io.Writer) *Output {
	o.w = w
	return o
}

// Format returns the output format
func (o *Output) Format() OutputFormat {
	return o.format
}

// IsJSON reports whether the output format is JSON
func (o *Output) IsJSON() bool {
	return o.format == FormatJSON
}

// PrintJSON writes data as indented JSON
func (o *Output) PrintJSON(data any) error {
	encoder := json.NewEncoder(o.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Print writes data as JSON, or calls render in table mode
func (o *Output) Print(data any, render func(w io.Writer)) error {
	if o.IsJSON() {
		return o.PrintJSON(data)
	}
	render(o.w)
	return nil
}

// PrintTable writes a table, or a placeholder when there are no rows
func (o *Output) PrintTable(headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(o.w, DefaultStyles().Muted.Render("No items found"))
		return
	}
	fmt.Fprintln(o.w, SimpleTable(headers, rows))
}

// Success prints a success line (table format only)
func (o *Output) Success(message string) {
	if !o.IsJSON() {
		fmt.Fprintln(o.w, SuccessMessage(message))
	}
}

// Error prints an error line (table format only)
func (o *Output) Error(message string) {
	if !o.IsJSON() {
		fmt.Fprintln(o.w, ErrorMessage(message))
	}
}

// Info prints an info line (table format only)
func (o *Output) Info(message string) {
	if !o.IsJSON() {
		fmt.Fprintln(o.w, InfoMessage(message))
	}
}

// Warning prints a warning line (table format only)
func (o *Output) Warning(message string) {
	if !o.IsJSON() {
		fmt.Fprintln(o.w, WarningMessage(message))
	}
}

// Println prints a line (table format only)
func (o *Output) Println(a ...any) {
	if !o.IsJSON() {
		fmt.Fprintln(o.w, a...)
	}
}

// ParseOutputFormat parses the -o flag, defaulting to table
func ParseOutputFormat(s string) OutputFormat {
	if s == string(FormatJSON) {
		return FormatJSON
	}
	return FormatTable
}

// ActionResult is the JSON shape of commands that change state
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

// NewActionResult creates an action result
func NewActionResult(success bool, message, path string) ActionResult {
	return ActionResult{Success: success, Message: message, Path: path}
}
