package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders md for the terminal, or prints it as is with -raw.
func printMarkdown(md string) {
	fprintMarkdown(os.Stdout, md, *rawMarkdown)
}

func fprintMarkdown(w io.Writer, md string, raw bool) {
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(w, out)
				return
			}
		}
	}
	fmt.Fprint(w, md)
}
