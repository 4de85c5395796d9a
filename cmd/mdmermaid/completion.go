package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// completionMeta holds completion hints that a FlagSet cannot express.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"theme":         {Values: []string{"default", "dark", "forest", "neutral", "base"}},
	"config":        {FileGlob: "*.yaml,*.yml"},
	"style":         {FileGlob: "*.css"},
	"engine-script": {FileGlob: "*.js"},
	"output":        {IsDir: true},
}

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long  string
	Short string
	Desc  string
	Bool  bool
	Meta  completionMeta
}

// commandDef describes a command for completion.
type commandDef struct {
	Name       string
	Desc       string
	Flags      []flagDef
	TakesFiles bool // accepts markdown files or directories
}

// extractFlags reads flag definitions from a FlagSet and attaches metadata.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		flags = append(flags, flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
			Bool:  f.Value.Type() == "bool",
			Meta:  flagCompletionMeta[f.Name],
		})
	})
	return flags
}

// getCommands returns the command registry for completion.
// Flags come from the same FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "render", Desc: "Render diagrams in markdown files to HTML", Flags: extractFlags(newRenderFlagSet(&renderFlags{})), TakesFiles: true},
		{Name: "diagnose", Desc: "Render a sample diagram to check the setup", Flags: extractFlags(newDiagnoseFlagSet(&diagnoseFlags{}))},
		{Name: "doctor", Desc: "Check system configuration"},
		{Name: "completion", Desc: "Generate shell completion script"},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// commandNames lists command names separated by spaces.
func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// generateBash writes a bash completion function.
func generateBash(w io.Writer) error {
	cmds := getCommands()

	var sb strings.Builder
	sb.WriteString("# bash completion for mdmermaid\n")
	sb.WriteString("_mdmermaid() {\n")
	sb.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	sb.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&sb, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n")
	sb.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	for _, c := range cmds {
		var opts []string
		for _, f := range c.Flags {
			opts = append(opts, "--"+f.Long)
			if f.Short != "" {
				opts = append(opts, "-"+f.Short)
			}
		}
		fmt.Fprintf(&sb, "        %s)\n", c.Name)
		if c.Name == "completion" {
			sb.WriteString("            COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n")
		} else if len(opts) > 0 {
			fmt.Fprintf(&sb, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
		}
		if c.TakesFiles {
			sb.WriteString("            [[ $cur != -* ]] && COMPREPLY+=($(compgen -f -- \"$cur\"))\n")
		}
		sb.WriteString("            ;;\n")
	}
	sb.WriteString("    esac\n")
	sb.WriteString("}\n")
	sb.WriteString("complete -F _mdmermaid mdmermaid\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// generateZsh writes a zsh completion function.
func generateZsh(w io.Writer) error {
	cmds := getCommands()

	var sb strings.Builder
	sb.WriteString("#compdef mdmermaid\n\n")
	sb.WriteString("_mdmermaid() {\n")
	sb.WriteString("    local -a commands\n")
	sb.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&sb, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	sb.WriteString("    )\n")
	sb.WriteString("    if (( CURRENT == 2 )); then\n")
	sb.WriteString("        _describe 'command' commands\n")
	sb.WriteString("        return\n")
	sb.WriteString("    fi\n")
	sb.WriteString("    case $words[2] in\n")
	for _, c := range cmds {
		fmt.Fprintf(&sb, "        %s)\n", c.Name)
		sb.WriteString("            _arguments \\\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&sb, "                '--%s[%s]%s' \\\n", f.Long, zshEscape(f.Desc), zshAction(f))
		}
		if c.TakesFiles {
			sb.WriteString("                '*:file:_files -g \"*.md *.markdown\"'\n")
		} else if c.Name == "completion" {
			sb.WriteString("                '1:shell:(bash zsh fish)'\n")
		} else {
			sb.WriteString("                '*: :'\n")
		}
		sb.WriteString("            ;;\n")
	}
	sb.WriteString("    esac\n")
	sb.WriteString("}\n\n")
	sb.WriteString("compdef _mdmermaid mdmermaid\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// zshAction returns the value completion for a flag.
func zshAction(f flagDef) string {
	switch {
	case f.Bool:
		return ""
	case len(f.Meta.Values) > 0:
		return ":value:(" + strings.Join(f.Meta.Values, " ") + ")"
	case f.Meta.FileGlob != "":
		globs := strings.ReplaceAll(f.Meta.FileGlob, ",", " ")
		return ":file:_files -g \"" + globs + "\""
	case f.Meta.IsDir:
		return ":directory:_files -/"
	default:
		return ":value: "
	}
}

// zshEscape escapes characters that are special inside _arguments specs.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

// generateFish writes fish completions.
func generateFish(w io.Writer) error {
	cmds := getCommands()

	var sb strings.Builder
	sb.WriteString("# fish completion for mdmermaid\n")
	sb.WriteString("complete -c mdmermaid -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&sb, "complete -c mdmermaid -n '__fish_use_subcommand' -a %s -d '%s'\n",
			c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		for _, f := range c.Flags {
			fmt.Fprintf(&sb, "complete -c mdmermaid -n '%s' -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&sb, " -s %s", f.Short)
			}
			if !f.Bool {
				sb.WriteString(" -r")
			}
			if len(f.Meta.Values) > 0 {
				fmt.Fprintf(&sb, " -a '%s'", strings.Join(f.Meta.Values, " "))
			}
			fmt.Fprintf(&sb, " -d '%s'\n", fishEscape(f.Desc))
		}
		if c.TakesFiles {
			fmt.Fprintf(&sb, "complete -c mdmermaid -n '%s' -F\n", cond)
		}
		if c.Name == "completion" {
			fmt.Fprintf(&sb, "complete -c mdmermaid -n '%s' -a 'bash zsh fish'\n", cond)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// fishEscape escapes single quotes for fish strings.
func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmermaid completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(mdmermaid completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(mdmermaid completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    mdmermaid completion fish > ~/.config/fish/completions/mdmermaid.fish")
}
