// Command glyphpad is an interactive pad for the notation engine. Typed
// text is fed keystroke by keystroke into an input line and the resulting
// cells and code points are printed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/gogpu/notation"
	"github.com/gogpu/notation/glyph"
	"github.com/gogpu/notation/input"
	"github.com/gogpu/notation/metrics"
)

func main() {
	initDisplay()

	manifest := flag.String("manifest", "", "Font manifest (YAML); default is the embedded one")
	system := flag.String("system", "number", "Notation system [number|western|sargam|doremi]")
	fontPath := flag.String("font", "", "Font file used by :measure")
	size := flag.Float64("size", notation.DefaultFontSize, "Font size in pixels")
	verbose := flag.Bool("v", false, "Log engine diagnostics to stderr")
	flag.Parse()

	if *verbose {
		notation.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	opts := []notation.Option{notation.WithFontSize(*size)}
	if *manifest != "" {
		m, err := glyph.LoadManifest(*manifest)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(2)
		}
		opts = append(opts, notation.WithManifest(m))
	}
	if *fontPath != "" {
		name := filepath.Base(*fontPath)
		opts = append(opts, notation.WithFont(
			metrics.LoadFont(context.Background(), name, metrics.FileLoader(*fontPath))))
	}
	engine, err := notation.New(opts...)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(2)
	}
	defer engine.Close()

	repl, err := readline.New("♪ > ")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(3)
	}
	defer repl.Close()

	p := &pad{engine: engine, repl: repl}
	if err := p.setSystem(*system); err != nil {
		pterm.Error.Println(err)
		os.Exit(4)
	}
	pterm.Info.Println("Welcome to glyphpad, manifest revision " + engine.Registry().Revision())
	pterm.Info.Println("Type notes, :help for commands, quit with <ctrl>D")
	p.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " ♪  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// pad is the interpreter state.
type pad struct {
	engine *notation.Engine
	repl   *readline.Instance
	system string
	line   *input.Line
}

func (p *pad) setSystem(name string) error {
	l, err := p.engine.NewLine(name)
	if err != nil {
		return err
	}
	p.system, p.line = name, l
	return nil
}

// REPL runs until EOF or :quit.
func (p *pad) REPL() {
	for {
		text, err := p.repl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		if text = strings.TrimSpace(text); text == "" {
			continue
		}
		if strings.HasPrefix(text, ":") {
			quit, err := p.execute(text)
			if err != nil {
				pterm.Error.Println(err)
			}
			if quit {
				break
			}
			continue
		}
		p.typeText(text)
	}
	pterm.Info.Println("Good bye!")
}

func (p *pad) typeText(text string) {
	for _, key := range text {
		if u := p.line.Type(key); u.Err != nil {
			pterm.Error.Printf("%q: %v\n", key, u.Err)
		}
	}
	p.printLine()
}

func (p *pad) printLine() {
	reg := p.engine.Registry()
	pterm.Printf("%s, %d cells\n", p.system, p.line.Len())
	for i := 0; i < p.line.Len(); i++ {
		c := p.line.Cell(i)
		state := "closed"
		if c.Open() {
			state = "open"
		}
		descs := make([]string, len(c.Codepoints))
		for j, cp := range p.engine.Glyphs(c) {
			descs[j] = reg.Describe(cp)
		}
		pterm.Printf("  %2d %-20s %-6s %q  %s\n", i, c.Role, state, c.Source, strings.Join(descs, ", "))
	}
}

func usage() string {
	var sb strings.Builder
	fmt.Fprintln(&sb, "  :help              this text")
	fmt.Fprintln(&sb, "  :quit              leave")
	fmt.Fprintln(&sb, "  :system NAME       start a line in another notation system")
	fmt.Fprintln(&sb, "  :reset             clear the line")
	fmt.Fprintln(&sb, "  :bs                backspace")
	fmt.Fprintln(&sb, "  :commit            close the open cell")
	fmt.Fprintln(&sb, "  :decode U+XXXX     describe a code point")
	fmt.Fprintln(&sb, "  :dump              print the registry categories")
	fmt.Fprintln(&sb, "  :config            print the font build configuration")
	fmt.Fprintln(&sb, "  :measure           lay out the line with the -font font")
	return sb.String()
}
