package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"pirani-measure/app"
	"pirani-measure/calibration"
	"pirani-measure/config"
	"pirani-measure/inspect"
	"pirani-measure/log"
	"pirani-measure/lookup"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	version     = "0.3.0"
	sizeFlag    string
	codeFlag    string
	cellPxFlag  float64
	verboseFlag bool
	rootCmd     = &cobra.Command{
		Use:   "pirani-measure",
		Short: "Pirani Measure - measure engraving height on product previews in the terminal.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("pirani-measure needs an interactive terminal")
			}

			ctx := context.Background()
			// The UI owns the terminal, so logs only go to the file.
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()
			opts := app.Options{
				Config: cfg,
				State:  config.LoadState(),
				Code:   codeFlag,
				CellPx: cellPxFlag,
			}
			if sizeFlag != "" {
				size, err := calibration.ParseSizeKey(sizeFlag)
				if err != nil {
					return err
				}
				opts.Size = size
			}

			return app.Run(ctx, opts)
		},
	}

	sizesCmd = &cobra.Command{
		Use:   "sizes",
		Short: "Print the calibration table",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%-6s %10s %10s %10s %10s\n", "SIZE", "TOP PX", "BASE PX", "SPAN PX", "SPAN MM")
			for _, key := range calibration.AllSizes() {
				rec := calibration.MustLookup(key)
				fmt.Printf("%-6s %10.0f %10.0f %10.0f %10s\n", key,
					rec.TopLineReferencePx, rec.BaselineReferencePx, rec.ReferenceHeightPx,
					calibration.FormatMm(rec.PhysicalHeightMm))
			}
		},
	}

	lookupCmd = &cobra.Command{
		Use:   "lookup <code>",
		Short: "Look up a product code and print the record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(verboseFlag)
			defer log.Close()

			cfg := config.LoadConfig()
			client := lookup.NewClient(cfg.LookupBaseURL, cfg.LookupTimeout())
			rec, err := client.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			fmt.Println(string(out))
			if size, ok := rec.SizeHint(); ok {
				fmt.Fprintf(os.Stderr, "size hint: %s\n", size)
			}
			return nil
		},
	}

	convertSize      string
	convertContainer float64
	convertPx        float64
	convertCmd       = &cobra.Command{
		Use:   "convert",
		Short: "Convert a pixel span measured in a container to millimeters",
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := calibration.ParseSizeKey(convertSize)
			if err != nil {
				return err
			}
			if convertContainer <= 0 {
				return fmt.Errorf("--container must be positive")
			}
			model := calibration.NewModel(size, convertContainer)
			fmt.Printf("%s mm\n", calibration.FormatMm(model.PixelsToMm(convertPx)))
			return nil
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print debug information like config paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Initialize(false)
			defer log.Close()

			cfg := config.LoadConfig()

			configDir, err := config.GetConfigDir()
			if err != nil {
				return fmt.Errorf("failed to get config directory: %w", err)
			}
			configJson, _ := json.MarshalIndent(cfg, "", "  ")

			fmt.Printf("Config: %s\n%s\n", filepath.Join(configDir, config.ConfigFileName), configJson)
			fmt.Printf("State: %s\n", filepath.Join(configDir, config.StateFileName))
			if !inspect.IsEnabled() {
				fmt.Printf("Inspect snapshot: disabled (set %s=1)\n", inspect.EnvVar)
			}
			snapPath := inspect.GetInspectFile()
			fmt.Printf("Inspect snapshot: %s\n", snapPath)
			if snap, err := inspect.ReadSnapshot(snapPath); err == nil {
				fmt.Print(snap.ToText())
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			return nil
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of pirani-measure",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pirani-measure version %s\n", version)
		},
	}
)

func init() {
	rootCmd.Flags().StringVarP(&sizeFlag, "size", "s", "",
		"Product size to calibrate against (10oz, 16oz or 26oz)")
	rootCmd.Flags().StringVarP(&codeFlag, "code", "c", "",
		"Product code to look up on start")
	rootCmd.Flags().Float64Var(&cellPxFlag, "cell-px", 0,
		"Pixels one terminal row stands for. Overrides cell_pixel_height in the config")
	lookupCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Also write logs to stderr")

	convertCmd.Flags().StringVar(&convertSize, "size", string(calibration.Size10oz), "Product size")
	convertCmd.Flags().Float64Var(&convertContainer, "container", calibration.ReferenceImageHeightPx,
		"Rendered container height in pixels")
	convertCmd.Flags().Float64Var(&convertPx, "px", 0, "Pixel span to convert")
	if err := convertCmd.MarkFlagRequired("px"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(sizesCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
