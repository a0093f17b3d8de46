package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	cargolist "github.com/alnah/go-cargolist"
	"github.com/alnah/go-cargolist/internal/yamlutil"
)

// Show output formats.
const (
	showTable = "table"
	showYAML  = "yaml"
)

// runShow prints the stored document.
func runShow(args []string, env *Environment) error {
	flags, positional, err := parseShowFlags(args, env.Stderr)
	if err != nil {
		return usageErr(err)
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: show takes no arguments", ErrUsage)
	}
	format := strings.ToLower(strings.TrimSpace(flags.format))
	if format != showTable && format != showYAML {
		return fmt.Errorf("%w: unknown show format %q (table, yaml)", ErrUsage, flags.format)
	}

	cfg, log, err := loadCommand(flags.common, flags.storage, env)
	if err != nil {
		return err
	}
	sess, err := openSession(context.Background(), cfg, false, log.Logger)
	if err != nil {
		return err
	}
	defer sess.Close()

	doc := sess.editor.Document()
	if format == showYAML {
		out, err := yamlutil.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encoding document: %w", err)
		}
		_, err = env.Stdout.Write(out)
		return err
	}
	_, err = io.WriteString(env.Stdout, renderDocument(doc, isTerminal(env.Stdout))+"\n")
	return err
}

// renderDocument formats the header, the rows and the footer as text.
// Terminals get rounded borders; pipes get plain ASCII.
func renderDocument(doc cargolist.Document, terminal bool) string {
	var b strings.Builder
	h := doc.Header
	for _, line := range []string{h.CompanyName, h.Address, h.Tagline, h.Mobile} {
		if line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	if h.ListTitle != "" {
		b.WriteString("\n" + h.ListTitle + "\n")
	}

	b.WriteString(renderRows(doc.Rows, terminal))
	b.WriteByte('\n')

	for _, note := range []string{doc.Footer.Warning, doc.Footer.Examples} {
		if note != "" {
			b.WriteString("\n" + note)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderRows renders the item table.
func renderRows(rows []cargolist.TableRow, terminal bool) string {
	tw := table.NewWriter()
	if terminal {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	tw.AppendHeader(table.Row{"ID", "Serial", "Description", "Quantity", "Remarks"})
	for _, r := range rows {
		tw.AppendRow(table.Row{strconv.Itoa(r.ID), r.Serial, r.Description, r.Quantity, r.Remarks})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
