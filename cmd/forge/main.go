// Command forge resolves a saved build record against the reference data and
// prints the fighter card, optionally exporting it as a spreadsheet.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pefman/warcry-anvil/internal/catalog"
	"github.com/pefman/warcry-anvil/internal/config"
	"github.com/pefman/warcry-anvil/internal/export"
	"github.com/pefman/warcry-anvil/internal/game"
	"github.com/pefman/warcry-anvil/internal/store"
)

type options struct {
	DataDir  string
	Record   string // path, or "-" for stdin
	XLSXDir  string
	JSON     bool
	SaveAs   string
	BuildDir string
}

func parseOptions(fs *flag.FlagSet, args []string, cfg config.Config) (options, error) {
	opts := options{DataDir: cfg.DataDir, BuildDir: cfg.BuildsDir}
	fs.StringVar(&opts.DataDir, "data", opts.DataDir, "reference data directory")
	fs.StringVar(&opts.Record, "record", "-", "build record file (YAML or JSON), - for stdin")
	fs.StringVar(&opts.XLSXDir, "xlsx", "", "write the fighter card as .xlsx into this directory")
	fs.BoolVar(&opts.JSON, "json", false, "print the full result as JSON")
	fs.StringVar(&opts.SaveAs, "save", "", "save the reconciled build under this name")
	fs.StringVar(&opts.BuildDir, "builds", opts.BuildDir, "build store directory used by -save")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		return options{}, errors.New("-data is required")
	}
	return opts, nil
}

func readRecord(path string, stdin io.Reader) (store.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return store.Record{}, fmt.Errorf("read record: %w", err)
	}
	return store.DecodeRecord(data)
}

func run(ctx context.Context, opts options, stdin io.Reader, out io.Writer) error {
	cat, err := catalog.LoadDir(ctx, opts.DataDir)
	if err != nil {
		return err
	}
	rec, err := readRecord(opts.Record, stdin)
	if err != nil {
		return err
	}
	res := game.Resolve(cat, rec.Selection)

	if opts.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	} else {
		printCard(out, res)
	}

	if opts.XLSXDir != "" {
		path, err := export.SaveFighterCard(opts.XLSXDir, res)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Fighter card written to %s\n", path)
	}
	if opts.SaveAs != "" {
		builds, err := store.New(opts.BuildDir)
		if err != nil {
			return err
		}
		if _, err := builds.Save(opts.SaveAs, res.Selection); err != nil {
			return err
		}
		fmt.Fprintf(out, "Build saved as %s\n", store.Key(opts.SaveAs))
	}
	return nil
}

func printCard(out io.Writer, res game.Result) {
	fmt.Fprintf(out, "%s (%s, %s)\n", res.Name, res.Selection.FighterType, res.Selection.Archetype)
	fmt.Fprintf(out, "Move %d | Toughness %d | Wounds %d\n", res.Movement(), res.Toughness(), res.Wounds())
	fmt.Fprintf(out, "Runemarks: %s\n", strings.Join(append([]string{res.FactionRunemark}, res.Runemarks...), ", "))
	fmt.Fprintln(out, "Attack actions:")
	for _, p := range res.Profiles {
		mark := ""
		if p.Blessed {
			mark = " *"
		}
		fmt.Fprintf(out, "  %s%s\n", p, mark)
	}
	fmt.Fprintf(out, "Divine Blessing: %s\n", res.BlessingText)
	fmt.Fprintln(out, "Points:")
	for _, item := range res.Points.Items {
		fmt.Fprintf(out, "  %-20s %-22s %4d\n", item.Kind, item.Name, item.Points)
	}
	fmt.Fprintf(out, "  %-43s %4d\n", "Total", res.Points.Total)
	for _, msg := range res.Messages {
		fmt.Fprintf(out, "! %s\n", msg)
	}
}

func main() {
	cfg, err := config.Load(os.Getenv("ANVIL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts, err := parseOptions(flag.CommandLine, os.Args[1:], cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := run(context.Background(), opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
