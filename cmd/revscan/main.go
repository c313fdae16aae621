package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shotset/revscan/internal/config"
	"github.com/shotset/revscan/internal/fsdir"
	"github.com/shotset/revscan/internal/pattern"
	"github.com/shotset/revscan/internal/review"
	"github.com/shotset/revscan/internal/scanner"
	"github.com/shotset/revscan/internal/storage"
	"github.com/shotset/revscan/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	stateFile  string // empty means config value or built-in default
	verbose    bool
	jsonOutput bool
	patterns   []string

	rootCmd = &cobra.Command{
		Use:   "revscan",
		Short: "Infer filename patterns from sample images and navigate comparable sets.",
		Long: `revscan derives a shared naming convention (a radix plus per-variant
match rules) from a handful of sample filenames, then finds every other
group of files in the directory that follows the same convention. Use it
to page through comparable image sets (renders, encodes, screenshots)
without retyping glob patterns.`,
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --json output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format instead of rich text")
	rootCmd.PersistentFlags().StringVar(&stateFile, "state", "", "Optional: session state file (default "+storage.DefaultPath+")")

	scanCmd.Flags().StringArrayVar(&patterns, "pattern", nil, "Substitute a hand-edited match rule (repeatable, positional)")

	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(navCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(sessionCmd)

	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

// setupLogging applies the flag-driven log level. JSON output demotes
// routine logs so stdout stays parseable.
func setupLogging() {
	switch {
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	case jsonOutput:
		logrus.SetLevel(logrus.WarnLevel)
	}
}

// splitSamples derives the scan directory and basenames from the FILE
// arguments. All samples must live in the same directory.
func splitSamples(files []string) (string, []string, error) {
	dir := filepath.Dir(files[0])
	names := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Dir(f) != dir {
			return "", nil, fmt.Errorf("sample files span multiple directories: %s and %s", dir, filepath.Dir(f))
		}
		names = append(names, filepath.Base(f))
	}
	return dir, names, nil
}

// activateSession builds a session from sample files, applying any
// --pattern overrides on top of the inferred cells.
func activateSession(l scanner.Lister, files []string) (*review.Session, []string, error) {
	dir, names, err := splitSamples(files)
	if err != nil {
		return nil, nil, err
	}
	s := review.NewSession(dir)
	if !s.Activate(l, names) && len(patterns) == 0 {
		return nil, nil, fmt.Errorf("%s", s.Message)
	}
	if len(patterns) > 0 {
		s.EditPatterns(l, patterns)
	}
	return s, names, nil
}

// openStorage resolves the state-file path (flag > config > default)
// and opens it, creating the file on first use.
func openStorage() (*storage.Storage, error) {
	path := stateFile
	if path == "" {
		cfg, err := config.Load(config.DefaultPath)
		if err != nil {
			logrus.Warnf("Ignoring malformed config: %v", err)
		}
		path = cfg.StateFile
	}
	return storage.NewOrExistingStorage(path)
}

func persistSession(st *storage.Storage, s *review.Session, samples []string) {
	st.PutSession(s.Dir, samples, patterns, s.CurrentRadix(), s.Index)
	if err := st.Save(); err != nil {
		logrus.Warnf("Unable to persist session: %v", err)
	}
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var inferCmd = &cobra.Command{
	Use:   "infer FILE...",
	Short: "Infer the naming convention shared by two or more sample files",
	Long:  "Derive the radix and per-variant match rules from sample filenames and print them. At least two samples are required.",
	Args:  cobra.MinimumNArgs(2), //nolint:mnd // One sample cannot separate radix from variant.
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		dir, names, err := splitSamples(args)
		if err != nil {
			logrus.Fatal(err)
		}
		ex, err := pattern.Extract(names)
		if err != nil {
			logrus.Fatalf("Cannot infer a shared pattern: %v", err)
		}
		scanner.Report{Dir: dir, Cells: ex.Cells, Radix: ex.Radix}.Print(jsonOutput)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var scanCmd = &cobra.Command{
	Use:   "scan FILE...",
	Short: "List every comparable set in the samples' directory",
	Long: "Infer the naming convention from the sample files, then list every radix in their directory " +
		"that at least two of the match rules corroborate. --pattern substitutes hand-edited rules positionally.",
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		l := fsdir.OS{}
		s, samples, err := activateSession(l, args)
		if err != nil {
			logrus.Fatal(err)
		}

		st, err := openStorage()
		if err != nil {
			logrus.Fatalf("Unable to open or create state file: %v", err)
		}
		persistSession(st, s, samples)

		scanner.Report{Dir: s.Dir, Cells: s.Extraction.Cells, Radixes: s.Radixes}.Print(jsonOutput)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var resolveCmd = &cobra.Command{
	Use:   "resolve RADIX FILE...",
	Short: "Print the per-variant files for one radix",
	Long:  "Infer the naming convention from the sample files, then print the file each match rule selects for the given radix. Absent variants are reported as missing.",
	Args:  cobra.MinimumNArgs(3), //nolint:mnd // A radix plus at least two samples.
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		radix := args[0]
		l := fsdir.OS{}
		s, _, err := activateSession(l, args[1:])
		if err != nil {
			logrus.Fatal(err)
		}

		slots := scanner.ResolveSet(l, s.Dir, radix, s.Extraction.Cells)
		scanner.Report{Dir: s.Dir, Radix: radix, Slots: slots}.Print(jsonOutput)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var navCmd = &cobra.Command{
	Use:   "nav {next|prev} [DIR]",
	Short: "Step the persisted session to the next or previous comparable set",
	Long:  "Restore the persisted session (for DIR, or the only stored session when DIR is omitted), move the cursor with wrap-around, print the resolved set, and persist the new position.",
	Args:  cobra.RangeArgs(1, 2), //nolint:mnd // Direction plus optional directory.
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		step := 0
		switch args[0] {
		case "next":
			step = 1
		case "prev":
			step = -1
		default:
			logrus.Fatalf("Unknown direction %q (want next or prev)", args[0])
		}

		st, err := openStorage()
		if err != nil {
			logrus.Fatalf("Unable to open state file: %v", err)
		}

		var (
			entry storage.Entry
			ok    bool
		)
		if len(args) == 2 {
			entry, ok = st.Session(args[1])
		} else {
			entry, ok = st.Latest()
		}
		if !ok {
			logrus.Fatal("No stored session; run scan first (or pass the directory when several are stored)")
		}

		l := fsdir.OS{}
		s := review.NewSession(entry.Dir)
		if len(entry.Samples) >= 2 { //nolint:mnd // Inference needs two samples.
			s.Activate(l, entry.Samples)
		}
		if len(entry.Patterns) > 0 {
			s.EditPatterns(l, entry.Patterns)
		}
		if s.Extraction == nil || len(s.Radixes) == 0 {
			logrus.Fatalf("Stored session for %s no longer matches anything on disk", entry.Dir)
		}
		for i, r := range s.Radixes {
			if r == entry.Radix {
				s.Index = i
				break
			}
		}

		resolved := s.Navigate(l, step)
		slots := make([]string, len(s.Extraction.Cells))
		for _, slot := range resolved {
			slots[slot.Cell] = slot.Path
		}

		entry.Radix = s.CurrentRadix()
		entry.Index = s.Index
		st.PutSession(entry.Dir, entry.Samples, entry.Patterns, entry.Radix, entry.Index)
		if err := st.Save(); err != nil {
			logrus.Warnf("Unable to persist session: %v", err)
		}

		scanner.Report{Dir: s.Dir, Radix: s.CurrentRadix(), Slots: slots}.Print(jsonOutput)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var discoverCmd = &cobra.Command{
	Use:   "discover ROOT FILE...",
	Short: "Walk a tree and report directories containing comparable sets",
	Long:  "Infer the naming convention from the sample files, then walk the tree under ROOT and report every directory in which the match rules corroborate at least one radix. VCS and cache directories are skipped.",
	Args:  cobra.MinimumNArgs(3), //nolint:mnd // A root plus at least two samples.
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		_, names, err := splitSamples(args[1:])
		if err != nil {
			logrus.Fatal(err)
		}
		ex, err := pattern.Extract(names)
		if err != nil {
			logrus.Fatalf("Cannot infer a shared pattern: %v", err)
		}

		cfg, err := config.Load(config.DefaultPath)
		if err != nil {
			logrus.Warnf("Ignoring malformed config: %v", err)
		}

		matches := scanner.Discover(cmd.Context(), args[0], ex.Cells, cfg.SkipDirs)
		scanner.Report{Dir: args[0], Matches: matches}.Print(jsonOutput)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var browseCmd = &cobra.Command{
	Use:   "browse FILE...",
	Short: "Interactively browse comparable sets",
	Long:  "Infer the naming convention from the sample files and open an interactive browser: a list of comparable sets on the left, the resolved files for the selected set on the right.",
	Args:  cobra.MinimumNArgs(2), //nolint:mnd // Inference needs two samples.
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		l := fsdir.OS{}
		s, samples, err := activateSession(l, args)
		if err != nil {
			logrus.Fatal(err)
		}

		if err := tui.Run(l, s); err != nil {
			logrus.Fatalf("Browse mode failed: %v", err)
		}

		// Persist where the user left off.
		st, err := openStorage()
		if err != nil {
			logrus.Fatalf("Unable to open or create state file: %v", err)
		}
		persistSession(st, s, samples)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear persisted sessions",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the persisted sessions",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		st, err := openStorage()
		if err != nil {
			logrus.Fatalf("Unable to open state file: %v", err)
		}
		if len(st.Data.Sessions) == 0 {
			fmt.Fprintln(os.Stdout, "No stored sessions")
			return
		}
		for dir, e := range st.Data.Sessions {
			fmt.Fprintf(os.Stdout, "%s\n", dir)
			fmt.Fprintf(os.Stdout, "  samples: %v\n", e.Samples)
			if len(e.Patterns) > 0 {
				fmt.Fprintf(os.Stdout, "  patterns: %v\n", e.Patterns)
			}
			if e.Radix != "" {
				fmt.Fprintf(os.Stdout, "  radix: %s\n", e.Radix)
			}
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all persisted sessions",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		st, err := openStorage()
		if err != nil {
			logrus.Fatalf("Unable to open state file: %v", err)
		}
		st.Clear()
		if err := st.Save(); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintln(os.Stdout, "Sessions cleared")
	},
}

func main() {
	Execute()
}
