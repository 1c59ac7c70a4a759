package automations

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// StatusPage is the small HTML page returned by manual triggers.
func StatusPage(success bool, text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		color := "#2f855a"
		if !success {
			color = "#c53030"
		}
		_, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>SchoolPass Automations</title></head>`+
			`<body style="font-family:Helvetica,Arial,sans-serif;padding:48px;text-align:center">`+
			`<p style="font-size:18px;color:`+color+`">`+templ.EscapeString(text)+`</p></body></html>`)
		return err
	})
}
