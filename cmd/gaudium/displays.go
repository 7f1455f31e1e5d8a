package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/1broseidon/gaudium/internal/event"
	"github.com/1broseidon/gaudium/internal/platform"
	"github.com/1broseidon/gaudium/internal/reactor"
	"github.com/1broseidon/gaudium/internal/window"
)

type displayJSON struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Usable    string  `json:"usable"`
	RefreshHz float64 `json:"refresh_hz"`
	Scale     float64 `json:"scale"`
	Primary   bool    `json:"primary"`
}

func runDisplays(args []string) int {
	if isHelp(args) {
		fmt.Fprintln(os.Stdout, "Usage: gaudium displays [--config PATH] [--json]")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Print a table on a terminal and JSON otherwise.")
		return 0
	}
	fs := flag.NewFlagSet("displays", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/gaudium/config.yaml)")
	asJSON := fs.Bool("json", false, "Print JSON even on a terminal")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	_, logger, binding, closer, err := setup(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	var displays []platform.Display
	err = reactor.Run(binding, func(tc *reactor.ThreadContext) (reactor.Reactor, error) {
		var err error
		displays, err = window.Displays(tc)
		if err != nil {
			return nil, err
		}
		return oneShot{}, nil
	}, reactor.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON || !term.IsTerminal(int(os.Stdout.Fd())) {
		err = writeDisplaysJSON(os.Stdout, displays)
	} else {
		err = writeDisplaysTable(os.Stdout, displays)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// oneShot ends the loop as soon as it starts.
type oneShot struct{}

func (oneShot) React(*reactor.ThreadContext, event.Event) reactor.Directive { return reactor.Abort }
func (oneShot) Poll(*reactor.ThreadContext) reactor.Directive               { return reactor.Abort }
func (oneShot) Abort()                                                      {}

func writeDisplaysJSON(w io.Writer, displays []platform.Display) error {
	out := make([]displayJSON, 0, len(displays))
	for _, d := range displays {
		out = append(out, displayJSON{
			ID:        int(d.ID),
			Name:      d.Name,
			X:         d.Bounds.X,
			Y:         d.Bounds.Y,
			Width:     d.Bounds.Width,
			Height:    d.Bounds.Height,
			Usable:    d.Usable.String(),
			RefreshHz: d.RefreshHz,
			Scale:     d.Scale,
			Primary:   d.Primary,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeDisplaysTable(w io.Writer, displays []platform.Display) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBOUNDS\tUSABLE\tREFRESH\tSCALE\tPRIMARY")
	for _, d := range displays {
		refresh := "-"
		if d.RefreshHz > 0 {
			refresh = fmt.Sprintf("%.2fHz", d.RefreshHz)
		}
		primary := ""
		if d.Primary {
			primary = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%g\t%s\n",
			d.ID, d.Name, d.Bounds, d.Usable, refresh, d.Scale, primary)
	}
	return tw.Flush()
}
