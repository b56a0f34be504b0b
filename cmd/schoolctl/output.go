package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"schoolku_backend/internals/client"
	"schoolku_backend/internals/helpers/formdata"
)

type printer struct {
	w                       io.Writer
	path, file, ok, bad, na *color.Color
}

// newPrinter colors output only when w is a terminal.
func newPrinter(w io.Writer) *printer {
	p := &printer{
		w:    w,
		path: color.New(color.FgCyan),
		file: color.New(color.FgMagenta),
		ok:   color.New(color.FgGreen, color.Bold),
		bad:  color.New(color.FgRed, color.Bold),
		na:   color.New(color.Faint),
	}
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	for _, c := range []*color.Color{p.path, p.file, p.ok, p.bad, p.na} {
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// parts prints an encoded payload as "path = value" lines.
func (p *printer) parts(payload *formdata.Payload) {
	for _, part := range payload.Parts() {
		if part.IsFile() {
			fmt.Fprintf(p.w, "%s = %s\n", p.path.Sprint(part.Name),
				p.file.Sprintf("<file %s %s>", part.File.Filename(), part.File.ContentType()))
			continue
		}
		v := part.Value
		if v == "" {
			v = p.na.Sprint(`""`)
		}
		fmt.Fprintf(p.w, "%s = %s\n", p.path.Sprint(part.Name), v)
	}
}

func (p *printer) result(label string, res *client.Response, err error) {
	if res == nil {
		fmt.Fprintf(p.w, "%s %s: %v\n", p.bad.Sprint("✗"), label, err)
		return
	}
	mark, status := p.ok.Sprint("✓"), p.ok.Sprint(res.Status)
	if err != nil {
		mark, status = p.bad.Sprint("✗"), p.bad.Sprint(res.Status)
	}
	fmt.Fprintf(p.w, "%s %s %s: %s\n", mark, status, label, res.Message)

	fields := make([]string, 0, len(res.Errors))
	for k := range res.Errors {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	for _, k := range fields {
		fmt.Fprintf(p.w, "    %s: %s\n", p.path.Sprint(k), strings.Join(res.Errors[k], ", "))
	}
}
