package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"verdict/internal/capture"
	"verdict/internal/diagfmt"
	"verdict/internal/observ"
	"verdict/internal/source"
	"verdict/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [flags] <file|directory>...",
	Short: "Check expectation markers against captured diagnostics",
	Long: `Scan the given source files for expected-error/expected-warning/expected-note
markers and reconcile them against a diagnostics capture file. Every unmet
expectation and every unexpected diagnostic becomes a finding; a clean run
exits with status 0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("diagnostics", "", "capture file with emitted diagnostics (.json or msgpack)")
	verifyCmd.Flags().String("format", "", "output format (pretty|json)")
	verifyCmd.Flags().String("ext", ".sg", "source extension used when expanding directories")
	verifyCmd.Flags().Bool("fix", false, "rewrite source files so markers match the captured diagnostics")
	verifyCmd.Flags().Bool("with-notes", false, "include finding notes in output")
	verifyCmd.Flags().Bool("suggest", false, "include marker rewrite suggestions in output")
	verifyCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runVerify(cmd *cobra.Command, args []string) error {
	// Получаем флаги
	capturePath, err := cmd.Flags().GetString("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	ext, err := cmd.Flags().GetString("ext")
	if err != nil {
		return fmt.Errorf("failed to get ext flag: %w", err)
	}
	applyFix, err := cmd.Flags().GetBool("fix")
	if err != nil {
		return fmt.Errorf("failed to get fix flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxFindings, err := cmd.Root().PersistentFlags().GetInt("max-findings")
	if err != nil {
		return fmt.Errorf("failed to get max-findings flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	// Манифест даёт дефолты; его отсутствие не ошибка
	manifest, haveManifest, err := loadProjectManifest(".")
	if err != nil {
		return err
	}
	if haveManifest {
		if capturePath == "" {
			if p, ok := manifest.resolveCapturePath(); ok {
				capturePath = p
			}
		}
		if format == "" && manifest.Config.Verify.Format != "" {
			format = manifest.Config.Verify.Format
		}
		if !cmd.Flags().Changed("fix") && manifest.Config.Verify.Fix {
			applyFix = true
		}
	}
	if format == "" {
		format = "pretty"
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	if capturePath == "" {
		return fmt.Errorf("no diagnostics capture specified: pass --diagnostics or set [verify].diagnostics in verdict.toml")
	}

	timer := observ.NewTimer()

	// Собираем список файлов (директории разворачиваем)
	phase := timer.Begin("collect files")
	files, err := collectSourceFiles(args, ext)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s files found under the given paths", ext)
	}
	timer.End(phase, fmt.Sprintf("%d files", len(files)))

	// Читаем содержимое параллельно, регистрируем в FileSet последовательно
	phase = timer.Begin("load sources")
	contents := make([][]byte, len(files))
	var g errgroup.Group
	g.SetLimit(8)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			contents[i] = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fs := source.NewFileSet()
	if haveManifest {
		fs.SetBaseDir(manifest.Root)
	} else if wd, err := os.Getwd(); err == nil {
		fs.SetBaseDir(wd)
	}
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		ids[i] = fs.AddBytes(path, contents[i])
	}
	timer.End(phase, "")

	// Загружаем capture-файл
	phase = timer.Begin("load capture")
	captured, err := capture.ReadFile(capturePath)
	if err != nil {
		return fmt.Errorf("failed to load diagnostics capture: %w", err)
	}
	timer.End(phase, fmt.Sprintf("%d diagnostics", len(captured)))

	// Сверяем
	phase = timer.Begin("verify")
	v := verify.New(fs)
	v.Add(captured)
	result, verr := v.Verify(ids, verify.Options{
		ApplyFixes:  applyFix,
		MaxFindings: maxFindings,
	})
	timer.End(phase, "")

	// Рендерим findings одним мешком, отсортированным по file/offset
	merged := mergeFindings(result)

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	useColor := colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "pretty":
		diagfmt.Pretty(os.Stdout, merged, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest || applyFix,
		})
		if !quiet && merged.Len() == 0 {
			fmt.Fprintf(os.Stdout, "verified %d files, no findings\n", len(files))
		}
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest || applyFix,
		}); err != nil {
			return fmt.Errorf("failed to format findings: %w", err)
		}
	}

	if showTimings {
		fmt.Fprint(os.Stderr, timer.Summary())
	}
	if verr != nil {
		return verr
	}
	if result.HadFindings() {
		// findings уже напечатаны, не дублируем их текстом ошибки
		os.Exit(1)
	}
	return nil
}

// collectSourceFiles разворачивает директории в списки файлов с данным
// расширением, пропуская скрытые и сборочные каталоги.
func collectSourceFiles(args []string, ext string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if len(name) > 1 && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				if name == "target" || name == "build" || name == "node_modules" {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ext {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
