// Package batch diagnoses many LU files at once.
package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"luedit/internal/diag"
	"luedit/internal/lufile"
	"luedit/internal/parser"
	"luedit/internal/source"
	"luedit/internal/trace"
)

// Ext is the extension of LU documents.
const Ext = ".lu"

type Options struct {
	// MaxErrors caps parse errors per file; 0 means no limit.
	MaxErrors uint
	// Jobs bounds parallelism; GOMAXPROCS when not positive.
	Jobs     int
	Progress ProgressSink
}

// Result is the outcome for one file. Err is set when the file could not
// be read; Document is nil then.
type Result struct {
	Path     string
	FileID   source.FileID
	Document *lufile.Document
	Err      error
}

// ListFiles returns every *.lu file under dir, sorted.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// DiagnoseDir parses every LU file under dir in parallel.
func DiagnoseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []Result, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSetWithBase(dir)
	results, err := diagnose(ctx, fileSet, files, opts)
	return fileSet, results, err
}

// DiagnoseFiles parses the given files in parallel. Results keep the
// order of paths.
func DiagnoseFiles(ctx context.Context, paths []string, opts Options) (*source.FileSet, []Result, error) {
	fileSet := source.NewFileSet()
	results, err := diagnose(ctx, fileSet, paths, opts)
	return fileSet, results, err
}

func diagnose(ctx context.Context, fileSet *source.FileSet, paths []string, opts Options) ([]Result, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageRead, Status: StatusQueued})
	}

	// FileSet не потокобезопасен: читаем файлы последовательно
	results := make([]Result, len(paths))
	for i, p := range paths {
		results[i].Path = p
		start := time.Now()
		emit(opts.Progress, Event{File: p, Stage: StageRead, Status: StatusWorking})
		id, err := fileSet.Load(p)
		if err != nil {
			results[i].Err = fmt.Errorf("failed to load file: %w", err)
			emit(opts.Progress, Event{File: p, Stage: StageRead, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			continue
		}
		results[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := &results[i]
			start := time.Now()
			emit(opts.Progress, Event{File: r.Path, Stage: StageParse, Status: StatusWorking})

			span, _ := trace.StartSpan(gctx, trace.ScopeEdit, "parse")
			file := fileSet.Get(r.FileID)
			r.Document = lufile.ParseWith(r.Path, string(file.Content), parser.Options{
				Path:      r.Path,
				MaxErrors: opts.MaxErrors,
			})
			span.WithExtra("diagnostics", fmt.Sprint(len(r.Document.Diagnostics))).End(r.Path)

			status := StatusDone
			if r.Document.HasErrors() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: r.Path, Stage: StageParse, Status: status, Elapsed: time.Since(start)})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// Totals counts results by outcome.
type Totals struct {
	Files    int
	Failed   int // не прочитаны
	Errors   int
	Warnings int
}

// Summarize adds up diagnostics over results.
func Summarize(results []Result) Totals {
	var t Totals
	for _, r := range results {
		t.Files++
		if r.Err != nil {
			t.Failed++
			continue
		}
		for _, d := range r.Document.Diagnostics {
			switch d.Severity {
			case diag.SevError:
				t.Errors++
			case diag.SevWarning:
				t.Warnings++
			}
		}
	}
	return t
}
