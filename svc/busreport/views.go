package busreport

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

const (
	colorText   = "#1f2933"
	colorMuted  = "#616e7c"
	colorBorder = "#d9e2ec"
)

// ReportEmail renders the manifest report as an HTML email body.
func ReportEmail(schoolName string, report Report) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &htmlWriter{w: w}

		p.raw(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		p.text(schoolName + " Bus Manifest Report")
		p.raw(`</title></head><body style="margin:0;padding:24px;font-family:Helvetica,Arial,sans-serif;color:` + colorText + `">`)

		p.raw(`<h1 style="font-size:22px;margin:0 0 4px">Bus Manifest Report</h1>`)
		p.raw(`<p style="margin:0 0 24px;color:` + colorMuted + `">`)
		p.text(schoolName)
		p.raw(` &middot; `)
		p.text(report.Date)
		p.raw(`</p>`)

		for _, bus := range report.Buses {
			renderBus(p, bus)
		}

		p.raw(`<p style="font-size:16px;font-weight:bold;margin:24px 0 0">Total students: `)
		p.text(strconv.Itoa(report.StudentTotal))
		p.raw(`</p></body></html>`)

		return p.err
	})
}

func renderBus(p *htmlWriter, bus BusReport) {
	title := bus.Bus.Destination
	if bus.Bus.Number != "" {
		title = fmt.Sprintf("Bus %s - %s", bus.Bus.Number, bus.Bus.Destination)
	}

	p.raw(`<h2 style="font-size:18px;margin:24px 0 4px">`)
	p.text(title)
	p.raw(`</h2>`)
	if bus.Bus.Driver != "" {
		p.raw(`<p style="margin:0 0 8px;color:` + colorMuted + `">Driver: `)
		p.text(bus.Bus.Driver)
		p.raw(`</p>`)
	}

	if bus.Total == 0 {
		p.raw(`<p style="margin:0;color:` + colorMuted + `">No students.</p>`)
		return
	}

	p.raw(`<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;width:100%">`)
	p.raw(`<tr>`)
	for _, h := range []string{"Student", "Grade", "Stop", "Boarded"} {
		p.raw(`<th align="left" style="border-bottom:2px solid ` + colorBorder + `">`)
		p.text(h)
		p.raw(`</th>`)
	}
	p.raw(`</tr>`)
	for _, s := range bus.Students {
		p.raw(`<tr>`)
		for _, v := range []string{s.LastName + ", " + s.FirstName, s.GradeName, s.BusStopName, boarded(s.BoardedTime)} {
			p.raw(`<td style="border-bottom:1px solid ` + colorBorder + `">`)
			p.text(v)
			p.raw(`</td>`)
		}
		p.raw(`</tr>`)
	}
	p.raw(`</table>`)

	p.raw(`<p style="margin:8px 0 0;font-weight:bold">Total: `)
	p.text(strconv.Itoa(bus.Total))
	p.raw(`</p>`)
}

func boarded(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (p *htmlWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

func (p *htmlWriter) text(s string) {
	p.raw(templ.EscapeString(s))
}
