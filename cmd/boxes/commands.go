package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/boxes/internal/config"
	"github.com/muurk/boxes/internal/discovery"
	"github.com/muurk/boxes/internal/importer"
	"github.com/muurk/boxes/internal/notation"
	"github.com/muurk/boxes/internal/render/pngsurface"
	"github.com/muurk/boxes/internal/store"
	"github.com/muurk/boxes/internal/ui"
)

// listTimeout bounds each server's handle listing in scan.
const listTimeout = 10 * time.Second

// Shared command flags
var (
	encodedInput bool
	force        bool
	outputPath   string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(scanCmd)

	for _, c := range []*cobra.Command{checkCmd, fmtCmd, renderCmd} {
		c.Flags().BoolVar(&encodedInput, "encoded", false, "Input is in percent-encoded stored form")
	}
	for _, c := range []*cobra.Command{renderCmd, importCmd} {
		c.Flags().StringVarP(&outputPath, "output", "o", "", "Output file")
		c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite the output file without asking")
	}
}

// readInput reads path, or standard input for "-", without the final line
// break.
func readInput(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(data), "\n"), nil
}

// readDocument reads and parses a document file.
func readDocument(path string) (*notation.Node, string, error) {
	text, err := readInput(path)
	if err != nil {
		return nil, "", err
	}
	if encodedInput {
		n, err := notation.Decode(text)
		return n, text, err
	}
	n, err := notation.Parse(text)
	return n, text, err
}

// errorContext shows the text around a parse error position with a caret
// under the offending rune.
func errorContext(text string, pos int) []string {
	const span = 30
	runes := []rune(text)
	if pos > len(runes) {
		pos = len(runes)
	}
	start := max(pos-span, 0)
	end := min(pos+span, len(runes))

	prefix := ""
	if start > 0 {
		prefix = "…"
	}
	line := prefix + string(runes[start:end])
	if end < len(runes) {
		line += "…"
	}
	caret := strings.Repeat(" ", len([]rune(prefix))+pos-start) + "^"
	return []string{line, caret}
}

// confirmOutput asks before overwriting an existing output file.
func confirmOutput(path string) bool {
	if force {
		return true
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return true
	}
	return ui.ConfirmOverwrite(os.Stdin, os.Stdout, path)
}

// checkCmd validates documents
var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Check that documents parse",
	Long: `Parse each document and report whether it is valid.

Invalid documents are reported with the kind of parse error and the rune
offset where parsing stopped. Use -v to show the text around each error.`,
	Example: `  # Check every document in a directory
  boxes check notes/*.box

  # Check a stored (percent-encoded) document and show error context
  boxes check --encoded -v exported.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var checkVerbose bool

func init() {
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show the text around each parse error")
}

func runCheck(cmd *cobra.Command, args []string) error {
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Check documents",
		Command:   "boxes check",
		Params:    map[string]string{"Files": strconv.Itoa(len(args)), "Encoded": strconv.FormatBool(encodedInput)},
		StepNames: args,
		Troubleshooting: []string{
			"Each document is one box: ( rows ) or a 'leaf",
			"Escape ( ) , ' ~ inside leaves with ~",
			"Use --encoded for percent-encoded stored strings",
		},
		Output: cmd.OutOrStdout(),
	})

	var boxes []*ui.OutputBox
	_, err := runner.Run(cmd.Context(), func(onStep ui.StepCallback) (map[string]string, error) {
		invalid := 0
		for i, path := range args {
			onStep(i+1, "", ui.StepRunning, "")
			n, text, err := readDocument(path)
			if err != nil {
				invalid++
				onStep(i+1, "", ui.StepFailed, err.Error())
				var perr *notation.ParseError
				if checkVerbose && errors.As(err, &perr) && perr.Kind != notation.ErrDecodeFailure {
					excerpt := strings.Join(errorContext(text, perr.Pos), "\n")
					boxes = append(boxes, ui.NewOutputBox(path+": "+perr.Message(), excerpt))
				}
				continue
			}
			onStep(i+1, "", ui.StepComplete, fmt.Sprintf("%d boxes, depth %d", n.Count(), n.Depth()))
		}
		details := map[string]string{
			"Valid":   strconv.Itoa(len(args) - invalid),
			"Invalid": strconv.Itoa(invalid),
		}
		if invalid > 0 {
			return details, fmt.Errorf("%d of %d documents are invalid", invalid, len(args))
		}
		return details, nil
	})

	for _, box := range boxes {
		fmt.Fprintln(cmd.OutOrStdout(), box.SetWidth(ui.GetTerminalWidth()).Render())
	}
	if err != nil {
		// The runner already printed the failure.
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
	}
	return err
}

// fmtCmd prints a document in canonical form
var fmtCmd = &cobra.Command{
	Use:   "fmt FILE",
	Short: "Print a document in canonical form",
	Long: `Parse a document and print it in canonical notation.

With --encode the percent-encoded stored form is printed instead, as kept by
boxes-server. With -w the file is rewritten in place. Use - for standard
input.`,
	Example: `  # Canonical readable form
  boxes fmt todo.box

  # Stored form, ready for PUT /api/docs/todo
  boxes fmt --encode todo.box

  # Decode a stored string back to readable notation
  boxes fmt --encoded stored.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

var (
	fmtEncode bool
	fmtWrite  bool
)

func init() {
	fmtCmd.Flags().BoolVar(&fmtEncode, "encode", false, "Print the percent-encoded stored form")
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write the result back to FILE")
}

func runFmt(cmd *cobra.Command, args []string) error {
	n, _, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	out := notation.Print(n)
	if fmtEncode {
		out = notation.Encode(n)
	}

	if !fmtWrite {
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	if args[0] == "-" {
		return fmt.Errorf("-w cannot be used with standard input")
	}
	return os.WriteFile(args[0], []byte(out+"\n"), 0644)
}

// renderCmd rasterises a document
var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Render a document to a PNG image",
	Long: `Lay out a document and draw it to a PNG image.

By default every level is drawn at full size. --levels N collapses boxes
nested deeper than N levels, as the editor does when zoomed out.`,
	Example: `  # Render next to the input (todo.png)
  boxes render todo.box

  # Overview with two levels expanded
  boxes render todo.box -o overview.png --levels 2`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var (
	renderLevels int
	renderMargin float64
)

func init() {
	renderCmd.Flags().IntVar(&renderLevels, "levels", 0, "Nesting levels drawn at full size (0 = all)")
	renderCmd.Flags().Float64Var(&renderMargin, "margin", 20, "Blank border in pixels")
}

func runRender(cmd *cobra.Command, args []string) error {
	n, _, err := readDocument(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out := outputPath
	if out == "" {
		if args[0] == "-" {
			return fmt.Errorf("--output is required when reading standard input")
		}
		out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".png"
	}
	if !confirmOutput(out) {
		return nil
	}

	s, err := pngsurface.Render(n, pngsurface.Options{Levels: renderLevels, Margin: renderMargin})
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	if err := s.SavePNG(out); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	w, h := s.Size()
	ui.PrintSuccess(cmd.OutOrStdout(), "Rendered "+args[0], map[string]string{
		"Output": out,
		"Size":   fmt.Sprintf("%.0fx%.0f", w, h),
		"Boxes":  strconv.Itoa(n.Count()),
	})
	return nil
}

// importCmd converts a Markdown or HTML outline
var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a Markdown or HTML outline as a document",
	Long: `Convert the outline of a Markdown or HTML file into a document.

Headings become nested boxes, paragraphs become rows of words and lists
become boxes with one row per item. The result is printed, or written to
--output.`,
	Example: `  # Preview the import
  boxes import README.md

  # Import and open in the editor
  boxes import page.html -o page.box && boxes page.box`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	imp, err := importer.ForFile(args[0])
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := imp.Import(f, args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	out := notation.Print(n)

	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	}
	if !confirmOutput(outputPath) {
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(out+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	ui.PrintSuccess(cmd.OutOrStdout(), "Imported "+args[0], map[string]string{
		"Output": outputPath,
		"Boxes":  strconv.Itoa(n.Count()),
		"Depth":  strconv.Itoa(n.Depth()),
	})
	return nil
}

// scanCmd discovers share servers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for boxes servers on the network",
	Long: `Scan for boxes-server instances using mDNS/DNS-SD discovery.

Each server found is listed with its address and the handles it hosts.`,
	Example: `  # Scan with the configured timeout
  boxes scan

  # Quick 2-second scan
  boxes scan --timeout 2`,
	RunE: runScan,
}

var scanTimeout int

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (0 = configured default)")
}

func runScan(cmd *cobra.Command, args []string) error {
	timeout := time.Duration(scanTimeout) * time.Second
	if timeout <= 0 {
		timeout = config.DefaultPreferences().DiscoverDuration()
		if registry, err := config.LoadRegistry(); err == nil {
			timeout = registry.Preferences.DiscoverDuration()
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scanning for boxes servers (timeout: %s)...\n\n", timeout)

	services, err := discovery.ScanForServers(timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(services) == 0 {
		fmt.Fprintln(out, "No servers found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Start a server with: boxes-server server")
		fmt.Fprintln(out, "  - Check that multicast DNS is allowed on this network")
		fmt.Fprintln(out, "  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Fprintf(out, "Found %d server(s):\n\n", len(services))

	client := &http.Client{Timeout: listTimeout}
	for i, svc := range services {
		fmt.Fprintf(out, "%d. %s\n", i+1, svc.Instance)
		fmt.Fprintf(out, "   URL:      %s\n", svc.BaseURL())
		if svc.Version != "" {
			fmt.Fprintf(out, "   Version:  %s\n", svc.Version)
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), listTimeout)
		handles, err := store.ListHandles(ctx, client, svc.BaseURL())
		cancel()
		switch {
		case err != nil:
			fmt.Fprintf(out, "   Handles:  (%s)\n", store.ShortMessage(err))
		case len(handles) == 0:
			fmt.Fprintln(out, "   Handles:  none")
		default:
			fmt.Fprintf(out, "   Handles:  %s\n", strings.Join(handles, ", "))
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Use 'boxes edit HANDLE --server URL' to open a shared document")
	return nil
}
