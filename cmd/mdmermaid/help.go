package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmermaid <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render      Render mermaid blocks in markdown files to HTML")
	fmt.Fprintln(w, "  diagnose    Render a sample diagram to check the setup")
	fmt.Fprintln(w, "  doctor      Check system configuration")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'mdmermaid help <command>' for details on a specific command.")
}

// printEngineUsage prints the flags shared by render and diagnose.
func printEngineUsage(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -l, --language <s>        Fence tag to render (default: mermaid)")
	fmt.Fprintln(w, "      --theme <s>           Theme: default, dark, forest, neutral")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-diagram timeout (default: 30s)")
	fmt.Fprintln(w, "      --width <n>           Viewport width in pixels (default: 200)")
	fmt.Fprintln(w, "      --height <n>          Viewport height in pixels (default: 200)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Browser and Engine:")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary")
	fmt.Fprintln(w, "      --engine-script <p>   Local mermaid bundle (offline use)")
	fmt.Fprintln(w, "      --engine-url <url>    Mermaid bundle URL")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment (flags > env > config file):")
	fmt.Fprintln(w, "  MDMERMAID_CONFIG, MDMERMAID_THEME, MDMERMAID_TIMEOUT,")
	fmt.Fprintln(w, "  MDMERMAID_BROWSER_BIN, MDMERMAID_ENGINE_SCRIPT, MDMERMAID_ENGINE_URL,")
	fmt.Fprintln(w, "  MDMERMAID_OUTPUT_DIR, MDMERMAID_STYLE, MDMERMAID_WORKERS")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmermaid render <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Replace mermaid code blocks with embedded SVG images and write HTML.")
	fmt.Fprintln(w, "Blocks may carry image attributes: ```mermaid:width=300&alt=Flow")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output .html file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto, max 8)")
	fmt.Fprintln(w, "  -s, --standalone          Write full HTML documents")
	fmt.Fprintln(w, "      --style <s>           Style name or .css file (standalone only)")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// printDiagnoseUsage prints usage for the diagnose command.
func printDiagnoseUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmermaid diagnose [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render a sample flowchart and write result.html and result.svg.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Directory for the results (default: .)")
	fmt.Fprintln(w)
	printEngineUsage(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: mdmermaid doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, engine source and temp directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w, "      --browser-bin <path>  Chrome/Chromium binary to check")
	fmt.Fprintln(w, "      --engine-script <p>   Local mermaid bundle to check")
	fmt.Fprintln(w, "      --engine-url <url>    Mermaid bundle URL")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "render":
		printRenderUsage(env.Stdout)
	case "diagnose":
		printDiagnoseUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: mdmermaid version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: mdmermaid help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
