// Package export renders task lists as json, csv, markdown, yaml or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"todo-board/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted format names.
var Formats = []string{"json", "csv", "markdown", "yaml", "pdf"}

type row struct {
	ID      string       `yaml:"id"`
	Message string       `yaml:"msg"`
	Status  model.Status `yaml:"status"`
	Deleted bool         `yaml:"isDeleted"`
}

// Render encodes tasks in the named format.
func Render(format string, tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	switch normalize(format) {
	case "json":
		data, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "csv":
		return renderCSV(tasks)
	case "markdown":
		return renderMarkdown(tasks), nil
	case "yaml":
		rows := make([]row, 0, len(tasks))
		for _, t := range tasks {
			rows = append(rows, row{ID: t.ID, Message: t.Message, Status: t.Status, Deleted: t.Deleted})
		}
		return yaml.Marshal(rows)
	case "pdf":
		return renderPDF(tasks)
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats, ", "))
	}
}

// Write renders tasks and writes them to w.
func Write(w io.Writer, format string, tasks []model.Task) error {
	data, err := Render(format, tasks)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Extension returns the usual file extension for format.
func Extension(format string) string {
	switch normalize(format) {
	case "markdown":
		return ".md"
	case "":
		return ""
	default:
		return "." + normalize(format)
	}
}

func normalize(format string) string {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "md":
		return "markdown"
	case "yml":
		return "yaml"
	default:
		return f
	}
}

func renderCSV(tasks []model.Task) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "msg", "status", "isDeleted"}); err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if err := w.Write([]string{t.ID, t.Message, string(t.Status), strconv.FormatBool(t.Deleted)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderMarkdown(tasks []model.Task) []byte {
	var b strings.Builder
	b.WriteString("# Tasks\n")
	if len(tasks) == 0 {
		b.WriteString("\n_No tasks._\n")
		return []byte(b.String())
	}
	for _, status := range model.Statuses {
		var section []model.Task
		for _, t := range tasks {
			if t.Status == status {
				section = append(section, t)
			}
		}
		if len(section) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n\n", status.Label())
		for _, t := range section {
			box := " "
			if t.Status == model.StatusDone {
				box = "x"
			}
			msg := strings.Join(strings.Fields(t.Message), " ")
			if t.Deleted {
				msg = "~~" + msg + "~~"
			}
			fmt.Fprintf(&b, "- [%s] %s <!-- %s -->\n", box, msg, t.ID)
		}
	}
	return []byte(b.String())
}

func renderPDF(tasks []model.Task) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Board")
	pdf.Ln(12)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(40, 6, "No tasks.")
		pdf.Ln(6)
	}
	for _, status := range model.Statuses {
		var lines []string
		for _, t := range tasks {
			if t.Status != status {
				continue
			}
			line := "- " + strings.Join(strings.Fields(t.Message), " ")
			if t.Deleted {
				line += " (deleted)"
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			continue
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 8, fmt.Sprintf("%s (%d)", status.Label(), len(lines)))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		for _, line := range lines {
			pdf.MultiCell(0, 6, tr(line), "0", "L", false)
		}
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
