package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/asgroll/pkg/types"
)

// Printer writes each step response as a numbered header and a YAML body
type Printer struct {
	out  io.Writer
	step int
}

// NewPrinter creates a Printer writing to w, or stdout when w is nil
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w}
}

// Step prints the response of one API call
func (p *Printer) Step(title string, v any) error {
	p.step++

	header := fmt.Sprintf("%s %d. %s", StepMarker, p.step, title)

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(header))
	sb.WriteString("\n")
	sb.WriteString(BorderStyle.Render(rule(header)))
	sb.WriteString("\n")

	body, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s response: %w", title, err)
	}
	sb.Write(body)

	if refresh, ok := v.(*types.InstanceRefresh); ok {
		sb.WriteString(summarizeRefresh(refresh))
	}
	sb.WriteString("\n")

	_, err = io.WriteString(p.out, sb.String())
	return err
}

// Identity prints the caller identity as a small key/value block
func (p *Printer) Identity(id *types.CallerIdentity) error {
	rows := [][2]string{
		{"Account", id.Account},
		{"User", id.UserID},
		{"ARN", id.Arn},
	}

	var sb strings.Builder
	for _, row := range rows {
		sb.WriteString(HeaderStyle.Render(padRight(row[0]+":", 10)))
		sb.WriteString(NameStyle.Render(row[1]))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(p.out, sb.String())
	return err
}

func summarizeRefresh(r *types.InstanceRefresh) string {
	line := fmt.Sprintf("%s (%d%% complete)", r.Status, r.PercentageComplete)
	return RefreshStatusStyle(r.Status).Render(line) + "\n"
}
