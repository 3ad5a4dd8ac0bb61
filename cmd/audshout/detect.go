// SPDX-License-Identifier: EPL-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/audshout"
	"github.com/ik5/audshout/formats"
	"github.com/ik5/audshout/formats/wav"
	"github.com/ik5/audshout/internal/cli"
	"github.com/ik5/audshout/internal/observe"
	"github.com/ik5/audshout/shout"
)

// DetectCmd runs the detector over local files.
type DetectCmd struct {
	Format    string  `short:"f" help:"Container format of every file (wav, aiff, mp3, ogg, flac). Sniffed when empty."`
	Policy    string  `default:"fixed" enum:"fixed,adaptive" help:"Threshold policy."`
	Threshold float64 `default:"-10" help:"Loudness threshold in dBFS."`
	MinRun    int     `name:"min-run" default:"600" help:"Minimum shout length in milliseconds."`
	MaxCrest  float64 `name:"max-crest" default:"18" help:"Highest crest factor in dB a shout frame may have."`
	JSON      bool    `help:"Print one JSON object per file."`
	DumpDir   string  `name:"dump-dir" type:"path" help:"Write the normalised 16 kHz mono signal of each file as WAV into this directory."`
	Jobs      int     `short:"j" default:"0" help:"Files analysed in parallel. Zero uses the number of CPUs."`
	Verbose   bool    `short:"v" help:"Log detector internals to stderr."`

	Files []string `arg:"" name:"files" type:"existingfile" help:"Audio files to analyse."`
}

// fileResult is one line of --json output.
type fileResult struct {
	File   string        `json:"file"`
	Result *shout.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// ErrSomeFailed is returned when at least one file could not be analysed.
var ErrSomeFailed = errors.New("some files could not be analysed")

func (c *DetectCmd) config() shout.Config {
	cfg := shout.DefaultConfig()
	cfg.Policy = c.Policy
	cfg.ThresholdDBFS = c.Threshold
	cfg.MinRunMs = c.MinRun
	cfg.MaxCrestDB = c.MaxCrest
	return cfg
}

func (c *DetectCmd) Run(e *env) error {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := observe.NewLogger(e.stderr, level, "text")

	det, err := shout.New(c.config(), shout.WithLogger(logger))
	if err != nil {
		return err
	}

	if c.DumpDir != "" {
		if err := os.MkdirAll(c.DumpDir, 0o755); err != nil {
			return fmt.Errorf("create dump dir: %w", err)
		}
	}

	results := make([]fileResult, len(c.Files))

	var g errgroup.Group
	jobs := c.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	g.SetLimit(jobs)

	for i, path := range c.Files {
		g.Go(func() error {
			res, err := c.detectFile(det, path)
			results[i] = fileResult{File: path}
			if err != nil {
				logger.Warn("analysis failed", "file", path, "error", err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = &res
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		if err := c.print(e, r); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrSomeFailed, failed, len(c.Files))
	}

	return nil
}

func (c *DetectCmd) detectFile(det *shout.Detector, path string) (shout.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return shout.Absent(), err
	}

	format := c.Format
	if format == "" {
		format = formatFromExt(path)
	}

	sig, err := audshout.DecodeSignal(data, format)
	if err != nil && format != c.Format {
		// The extension lied; let the content decide.
		sig, err = audshout.DecodeSignal(data, "")
	}
	if err != nil {
		return shout.Absent(), err
	}

	if c.DumpDir != "" {
		if err := dumpSignal(c.DumpDir, path, sig); err != nil {
			return shout.Absent(), err
		}
	}

	return det.Detect(sig), nil
}

func (c *DetectCmd) print(e *env, r fileResult) error {
	if c.JSON {
		return json.NewEncoder(e.stdout).Encode(r)
	}

	if r.Error != "" {
		cli.PrintError(e.stderr, fmt.Sprintf("%s: %s", r.File, r.Error))
		return nil
	}

	_, err := io.WriteString(e.stdout, cli.FormatResult(r.File, *r.Result))
	return err
}

// formatFromExt maps a file extension onto a format name, or "" when the
// extension is not an audio one.
func formatFromExt(path string) string {
	f, ok := formats.Canonical(filepath.Ext(path))
	if !ok {
		return ""
	}

	return f
}

// dumpSignal writes sig as 16-bit mono WAV named after the source file.
func dumpSignal(dir, path string, sig shout.Signal) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".16k.wav"

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("dump %s: %w", path, err)
	}

	pcm := make([]float32, len(sig.Samples))
	for i, x := range sig.Samples {
		pcm[i] = float32(x / 32768)
	}

	if err := wav.Encode(f, sig.SampleRate, 1, pcm); err != nil {
		f.Close()
		return fmt.Errorf("dump %s: %w", path, err)
	}

	return f.Close()
}
