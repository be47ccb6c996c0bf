package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/setanarut/favicon"
	"github.com/setanarut/favicon/config"
	"github.com/setanarut/favicon/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, "favicon: ", 0)

	fs := flag.NewFlagSet("favicon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "favicon.yaml", "YAML config file (optional)")
	input := fs.String("input", "", "Source image (overrides config)")
	outDir := fs.String("out", "", "Existing output directory (overrides config)")
	filterName := fs.String("filter", "", "Resampling filter: lanczos, lanczos3 or catmullrom")
	manifest := fs.Bool("manifest", false, "Also write site.webmanifest")
	initConfig := fs.Bool("init-config", false, "Write a default config to -config and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			logger.Printf("init config: %v", err)
			return 1
		}
		fmt.Fprintf(stdout, "Wrote default config to %s\n", *configPath)
		return 0
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Printf("config: %v", err)
		return 1
	}
	if *input != "" {
		cfg.Input = *input
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if *filterName != "" {
		cfg.Filter = *filterName
	}
	if *manifest {
		cfg.Manifest.Enabled = true
	}

	opt, err := options(cfg)
	if err != nil {
		logger.Printf("config: %v", err)
		return 1
	}

	src, err := utils.ReadImage(cfg.Input)
	if err != nil {
		fmt.Fprintln(stdout, "Error opening image:", err)
		return 1
	}

	gen := favicon.NewGenerator(src)
	gen.Build(opt)
	if _, err := gen.Export(cfg.OutputDir, opt.Filter); err != nil {
		logger.Printf("%v", err)
		return 1
	}

	if cfg.Manifest.Enabled {
		method, err := utils.ParsePaletteMethod(cfg.Manifest.PaletteMethod)
		if err != nil {
			logger.Printf("manifest: %v", err)
			return 1
		}
		m := gen.NewManifest(cfg.Manifest.Name, cfg.Manifest.ShortName, method)
		if _, err := favicon.WriteManifest(cfg.OutputDir, m); err != nil {
			logger.Printf("%v", err)
			return 1
		}
	}

	fmt.Fprintln(stdout, "Favicons generated successfully.")
	return 0
}

func options(cfg *config.Config) (favicon.Options, error) {
	if err := cfg.Validate(); err != nil {
		return favicon.Options{}, err
	}
	f, err := favicon.ParseFilter(cfg.Filter)
	if err != nil {
		return favicon.Options{}, err
	}
	return favicon.Options{
		OpaqueAlpha: uint8(cfg.Background.OpaqueAlpha),
		WhiteLevel:  uint8(cfg.Background.WhiteLevel),
		CanvasSize:  cfg.Layout.CanvasSize,
		FillRatio:   cfg.Layout.FillRatio,
		Filter:      f,
	}, nil
}
