package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/gogpu/notation/layout"
)

var errUsage = errors.New("bad arguments, see :help")

type commandFn func(p *pad, args []string) (quit bool, err error)

var commands = map[string]commandFn{
	"help":    helpCmd,
	"quit":    quitCmd,
	"system":  systemCmd,
	"reset":   resetCmd,
	"bs":      backspaceCmd,
	"commit":  commitCmd,
	"decode":  decodeCmd,
	"dump":    dumpCmd,
	"config":  configCmd,
	"measure": measureCmd,
}

func (p *pad) execute(text string) (bool, error) {
	fields := strings.Fields(strings.TrimPrefix(text, ":"))
	if len(fields) == 0 {
		return false, errUsage
	}
	fn, ok := commands[strings.ToLower(fields[0])]
	if !ok {
		return false, fmt.Errorf("unknown command %q", fields[0])
	}
	return fn(p, fields[1:])
}

func helpCmd(*pad, []string) (bool, error) {
	pterm.Println(usage())
	return false, nil
}

func quitCmd(*pad, []string) (bool, error) {
	return true, nil
}

func systemCmd(p *pad, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	if err := p.setSystem(args[0]); err != nil {
		return false, err
	}
	pterm.Info.Println("system " + args[0])
	return false, nil
}

func resetCmd(p *pad, _ []string) (bool, error) {
	p.line.Reset()
	p.printLine()
	return false, nil
}

func backspaceCmd(p *pad, _ []string) (bool, error) {
	if !p.line.Backspace() {
		return false, errors.New("line is empty")
	}
	p.printLine()
	return false, nil
}

func commitCmd(p *pad, _ []string) (bool, error) {
	p.line.Commit()
	p.printLine()
	return false, nil
}

// parseCodepoint accepts U+E08C, 0xE08C and E08C.
func parseCodepoint(s string) (rune, error) {
	s = strings.ToUpper(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "0X")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("code point %q: %w", s, err)
	}
	return rune(v), nil
}

func decodeCmd(p *pad, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errUsage
	}
	cp, err := parseCodepoint(args[0])
	if err != nil {
		return false, err
	}
	d, err := p.engine.Registry().Decode(cp)
	if err != nil {
		return false, err
	}
	pterm.Printf("%s  %s\n", p.engine.Describe(cp), d)
	return false, nil
}

func dumpCmd(p *pad, _ []string) (bool, error) {
	return false, p.engine.Registry().Dump(os.Stdout)
}

func configCmd(p *pad, _ []string) (bool, error) {
	data, err := p.engine.FontConfig().JSON()
	if err != nil {
		return false, err
	}
	pterm.Println(string(data))
	return false, nil
}

func measureCmd(p *pad, _ []string) (bool, error) {
	if p.engine.Cache().Font() == nil {
		return false, errors.New("no font, start with -font")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.engine.Cache().Await(ctx, p.line.Codepoints(), p.engine.FontSize()); err != nil {
		return false, err
	}

	cells := p.line.Cells()
	doc := layout.Document{Lines: []layout.Line{{Cells: cells}}}
	if len(cells) > 0 {
		doc.Lines[0].Groups = []layout.Group{{Span: layout.Span{First: 0, Last: len(cells) - 1}, Level: 1}}
	}
	res := p.engine.Layout(doc)
	if res.Err != nil {
		pterm.Error.Println(res.Err)
	}
	pterm.Printf("status=%s provisional=%v height=%.1f\n", res.Status, res.Provisional, res.Height)
	for _, lr := range res.Lines {
		for i, c := range lr.Cells {
			m := c.Metrics
			pterm.Printf("  %2d x=%6.1f adv=%5.1f ink=[%5.1f,%5.1f]x[%5.1f,%5.1f]\n",
				i, c.OriginX, m.Advance, m.InkLeft, m.InkRight, m.InkTop, m.InkBottom)
		}
		for _, d := range lr.Decorations {
			pterm.Printf("  %-12s x=[%6.1f,%6.1f] y=%6.1f\n", d.Kind, d.StartX, d.EndX, d.YOffset)
		}
	}
	return false, nil
}
