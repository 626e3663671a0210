// Command ped is the terminal-resident, multi-buffer text editor's
// entrypoint: flag parsing and exit-code policy from §6/§7, wiring the
// controller's main loop to a real raw-mode terminal.
package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/davidledwards/ped/internal/canvas"
	"github.com/davidledwards/ped/internal/config"
	"github.com/davidledwards/ped/internal/controller"
	"github.com/davidledwards/ped/internal/editor"
	"github.com/davidledwards/ped/internal/errs"
	"github.com/davidledwards/ped/internal/keys"
	"github.com/davidledwards/ped/internal/logging"
	"github.com/davidledwards/ped/internal/syntax"
	"github.com/davidledwards/ped/internal/workspace"
)

// Exit codes per §6/§7.
const (
	exitOK         = 0
	exitConfigOrIO = 1
	exitMisuse     = 2
)

type cliFlags struct {
	source       []string
	configPath   string
	syntaxDir    string
	bare         bool
	bareSyntax   bool
	spotlight    bool
	lines        bool
	eol          bool
	tabHard      bool
	tabSoft      bool
	tabSize      int
	trackLateral bool
	showKeys     bool
	showOps      bool
	showBindings bool
	showColors   bool
	showTheme    bool
	describeOp   string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := &cliFlags{spotlight: true, lines: true, tabSize: 4, trackLateral: true}
	code := exitOK
	root := newRootCommand(flags, &code)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if code == exitOK {
			code = exitMisuse
		}
	}
	return code
}

func newRootCommand(flags *cliFlags, code *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ped [files...]",
		Short:         "a terminal-resident, multi-buffer text editor",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.source = args
			return runEditor(flags, code)
		},
	}

	pf := cmd.Flags()
	pf.StringVarP(&flags.configPath, "config", "C", "", "config file path")
	pf.StringVarP(&flags.syntaxDir, "syntax", "S", "", "syntax definitions directory")
	pf.BoolVarP(&flags.bare, "bare", "b", false, "skip loading pedrc")
	pf.BoolVarP(&flags.bareSyntax, "bare-syntax", "B", false, "skip loading syntax definitions")
	pf.BoolVar(&flags.spotlight, "spotlight", flags.spotlight, "highlight the cursor's line")
	pf.Bool("no-spotlight", false, "disable --spotlight")
	pf.BoolVar(&flags.lines, "lines", flags.lines, "show line numbers")
	pf.Bool("no-lines", false, "disable --lines")
	pf.BoolVar(&flags.eol, "eol", flags.eol, "save with CRLF line endings")
	pf.Bool("no-eol", false, "disable --eol (use LF)")
	pf.BoolVar(&flags.tabHard, "tab-hard", false, "insert literal tabs")
	pf.BoolVar(&flags.tabSoft, "tab-soft", false, "insert spaces for tab")
	pf.IntVarP(&flags.tabSize, "tab-size", "t", flags.tabSize, "spaces per soft tab")
	pf.BoolVar(&flags.trackLateral, "track-lateral", flags.trackLateral, "honor lateral mouse scroll")
	pf.Bool("no-track-lateral", false, "disable --track-lateral")
	pf.BoolVar(&flags.showKeys, "keys", false, "print recognized canonical keys and exit")
	pf.BoolVar(&flags.showOps, "ops", false, "print known operations and exit")
	pf.BoolVar(&flags.showBindings, "bindings", false, "print the pedrc [bindings] entries (not the built-in defaults) and exit")
	pf.BoolVar(&flags.showColors, "colors", false, "print the active color table and exit")
	pf.BoolVar(&flags.showTheme, "theme", false, "print the active theme and exit")
	pf.StringVar(&flags.describeOp, "describe", "", "describe one operation's bound keys and exit")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		applyNegation(pf, "no-spotlight", &flags.spotlight)
		applyNegation(pf, "no-lines", &flags.lines)
		applyNegation(pf, "no-eol", &flags.eol)
		applyNegation(pf, "no-track-lateral", &flags.trackLateral)
		if flags.tabHard && flags.tabSoft {
			*code = exitMisuse
			return errs.Newf(errs.Internal, "cli", "--tab-hard and --tab-soft are mutually exclusive")
		}
		return nil
	}

	return cmd
}

// applyNegation implements the --foo/--no-foo convention: if the
// negated flag was explicitly set, it wins regardless of --foo's
// default or explicit value (cobra/pflag has no native --[no-]
// boolean pair, so this is the idiomatic workaround used throughout
// CLIs built on cobra).
func applyNegation(pf *pflag.FlagSet, negFlag string, target *bool) {
	if pf.Changed(negFlag) {
		*target = false
	}
}

func runEditor(flags *cliFlags, code *int) error {
	home, _ := os.UserHomeDir()

	var cfg *config.Config
	var err error
	switch {
	case flags.bare:
		cfg = config.Default()
	case flags.configPath != "":
		cfg = config.Default()
		if _, statErr := os.Stat(flags.configPath); statErr == nil {
			if _, decErr := toml.DecodeFile(flags.configPath, cfg); decErr != nil {
				*code = exitConfigOrIO
				err = errs.Newf(errs.ParseConfig, "cli", "%s: %w", flags.configPath, decErr)
				fmt.Fprintln(os.Stderr, "ped:", err)
				return err
			}
		}
	default:
		cfg, err = config.Load(home)
		if err != nil {
			*code = exitConfigOrIO
			fmt.Fprintln(os.Stderr, "ped:", err)
			return err
		}
	}

	if err := logging.Init(logPath(home), log.InfoLevel); err != nil {
		*code = exitConfigOrIO
		return err
	}
	defer logging.Close()

	if flags.showOps || flags.showKeys || flags.showBindings || flags.showColors || flags.showTheme || flags.describeOp != "" {
		return printIntrospection(flags, cfg, buildTrie(cfg))
	}

	var syntaxDefs []config.SyntaxDef
	switch {
	case flags.bareSyntax:
	case flags.syntaxDir != "":
		syntaxDefs, err = config.LoadSyntax(flags.syntaxDir)
	default:
		syntaxDefs, err = config.LoadAllSyntax(home)
	}
	if err != nil {
		*code = exitConfigOrIO
		fmt.Fprintln(os.Stderr, "ped:", err)
		return err
	}

	ed := openInitialBuffer(flags)
	applySettings(ed, flags, cfg)

	term := canvas.NewTerminal()
	rows, cols, err := term.Size()
	if err != nil {
		*code = exitConfigOrIO
		return err
	}
	if err := term.EnterRaw(os.Stdout); err != nil {
		*code = exitConfigOrIO
		return err
	}
	defer term.Restore(os.Stdout)

	cv := canvas.New(rows, cols)
	ws := workspace.New(rows, cols, ed)
	trie := buildTrie(cfg)
	ops := controller.DefaultOps()
	rules := ruleLookup(syntaxDefs)
	ctrl := controller.New(ws, trie, ops, rules)
	ctrl.SetTrackLateral(flags.trackLateral)

	runLoop(ctrl, cv, term)
	return nil
}

func logPath(home string) string {
	dir := home + "/.ped"
	_ = os.MkdirAll(dir, 0o755)
	return dir + "/ped.log"
}

func openInitialBuffer(flags *cliFlags) *editor.Editor {
	if len(flags.source) == 0 {
		return editor.New("@scratch", nil, editor.OriginScratch)
	}
	path := flags.source[0]
	content, err := os.ReadFile(path)
	if err != nil {
		return editor.New(path, nil, editor.OriginFile)
	}
	return editor.New(path, []rune(string(content)), editor.OriginFile)
}

func applySettings(ed *editor.Editor, flags *cliFlags, cfg *config.Config) {
	if flags.eol {
		ed.SetEOLMode(editor.EOLCRLF)
	}
	if flags.tabSoft {
		ed.SetTabMode(editor.TabSoft)
	}
	ed.SetTabSize(flags.tabSize)
}

func buildTrie(cfg *config.Config) *keys.Trie {
	trie := keys.NewTrie()
	for seq, op := range defaultBindings() {
		trie.Bind(parseSequence(seq), op)
	}
	for seq, op := range cfg.Bindings {
		trie.Bind(parseSequence(seq), op)
	}
	return trie
}

// defaultBindings is the built-in binding table layered under any
// pedrc [bindings] overrides.
func defaultBindings() map[string]string {
	return map[string]string{
		"C-n": "move_down",
		"C-p": "move_up",
		"C-f": "move_right",
		"C-b": "move_left",
		"C-a": "line_start",
		"C-e": "line_end",
		"C-v": "page_down",
		"M-v": "page_up",
		"C-k": "remove_to_eol",
		"C-y": "paste",
		"M-w": "copy",
		"C-w": "cut",
		"C-_": "undo",
		"C-s": "search_forward",
		"C-r": "search_backward",
		"M-g": "goto_line",
		"C-x 2": "split_below",
		"C-x 0": "close_current",
		"C-x 1": "close_others",
		"C-x o": "focus_next",
	}
}

// parseSequence turns a space-separated binding string like "C-x C-s"
// into a canonical key sequence. Single characters with no modifier
// prefix decode as plain runes.
func parseSequence(s string) []keys.Key {
	var out []keys.Key
	field := ""
	for _, r := range s + " " {
		if r == ' ' {
			if field != "" {
				out = append(out, parseOneKey(field))
				field = ""
			}
			continue
		}
		field += string(r)
	}
	return out
}

func parseOneKey(field string) keys.Key {
	ctrl, meta := false, false
	for len(field) > 2 && (field[:2] == "C-" || field[:2] == "M-") {
		if field[:2] == "C-" {
			ctrl = true
		} else {
			meta = true
		}
		field = field[2:]
	}
	r := []rune(field)
	var ch rune
	if len(r) > 0 {
		ch = r[0]
	}
	return keys.Key{Kind: keys.KindRune, Rune: ch, Ctrl: ctrl, Meta: meta}
}

func ruleLookup(defs []config.SyntaxDef) controller.RuleLookup {
	compiled := map[string]syntax.RuleSet{}
	for _, d := range defs {
		var rules []syntax.Rule
		for _, r := range d.Rules {
			re, err := regexp.Compile(r.Pattern)
			if err != nil {
				logging.Log().Warn("bad syntax rule pattern", "name", d.Name, "pattern", r.Pattern, "err", err)
				continue
			}
			rules = append(rules, syntax.Rule{Pattern: re, Color: colorFor(r.Color), Precedence: r.Precedence})
		}
		syntax.SortRulesByPrecedence(rules)
		compiled[d.Name] = syntax.RuleSet{Name: d.Name, Rules: rules, DefaultColor: colorFor(d.DefaultColor)}
	}
	return func(name string) (syntax.RuleSet, bool) {
		rs, ok := compiled[name]
		return rs, ok
	}
}

func colorFor(name string) int {
	// Color-name resolution against [colors]/[theme] is an external
	// collaborator per §6's explicit out-of-scope list; a numeric
	// fallback keeps the tokenizer exercisable without it.
	return 0
}

func printIntrospection(flags *cliFlags, cfg *config.Config, trie *keys.Trie) error {
	switch {
	case flags.showOps:
		for op := range controller.DefaultOps() {
			fmt.Println(op)
		}
	case flags.showBindings:
		for seq, op := range cfg.Bindings {
			fmt.Printf("%s -> %s\n", seq, op)
		}
	case flags.showColors:
		for name, n := range cfg.Colors {
			fmt.Printf("%s = %d\n", name, n)
		}
	case flags.showTheme:
		for slot, color := range cfg.Theme {
			fmt.Printf("%s = %s\n", slot, color)
		}
	case flags.describeOp != "":
		return describeOp(flags.describeOp, trie)
	case flags.showKeys:
		fmt.Println("printable UTF-8 scalars, C-x / M-x modifiers, arrow/home/end/page/function keys, SGR mouse reports")
	}
	return nil
}

// describeOp prints an operation's doc string and every key sequence
// bound to it in the trie, reflecting over the trie's registered
// bindings rather than just echoing the operation name back.
func describeOp(op string, trie *keys.Trie) error {
	if _, ok := controller.DefaultOps()[op]; !ok {
		return errs.Newf(errs.NotFound, "cli", "unknown operation %q", op)
	}
	doc, ok := controller.OpDocs()[op]
	if !ok {
		doc = op
	}
	fmt.Println(op + ": " + doc)

	var sequences []string
	trie.Walk(func(sequence []string, boundOp string) {
		if boundOp == op {
			seq := ""
			for i, s := range sequence {
				if i > 0 {
					seq += " "
				}
				seq += s
			}
			sequences = append(sequences, seq)
		}
	})
	sort.Strings(sequences)
	if len(sequences) == 0 {
		fmt.Println("  (unbound)")
		return nil
	}
	for _, seq := range sequences {
		fmt.Println("  " + seq)
	}
	return nil
}

// runLoop drains terminal input and drives the controller, polling at
// a short interval so idle background work (§4.11) and the ESC timing
// window (§4.8) both get a chance to run.
func runLoop(ctrl *controller.Controller, cv *canvas.Canvas, term *canvas.Terminal) {
	reads := make(chan []byte)
	go func() {
		for {
			chunk := make([]byte, 256)
			n, err := os.Stdin.Read(chunk)
			if err != nil {
				close(reads)
				return
			}
			reads <- chunk[:n]
		}
	}()

	ticker := time.NewTicker(keys.EscTimeout / 4)
	defer ticker.Stop()

	for !ctrl.Quitting() {
		select {
		case chunk, ok := <-reads:
			if !ok {
				return
			}
			ctrl.FeedBytes(chunk)
		case <-ticker.C:
			ctrl.PollIdle()
		}
		row, col := ctrl.Render(cv)
		cv.SetCursor(row, col)
		os.Stdout.Write(cv.Flush())
	}
}
