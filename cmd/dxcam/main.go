package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ninjatall12/DXcam/internal/batch"
	"github.com/ninjatall12/DXcam/internal/config"
	"github.com/ninjatall12/DXcam/internal/frame"
	"github.com/ninjatall12/DXcam/internal/logging"
	"github.com/ninjatall12/DXcam/internal/rawdump"
	"github.com/ninjatall12/DXcam/internal/workerpool"
)

var (
	version = "0.1.0"
	cfgFile string

	colorFlag  string
	regionFlag string
	outFlag    string
	workerFlag int

	synthWidth    int
	synthHeight   int
	synthRotation int
	synthPad      int
	synthName     string
)

var log = logging.L("main")

var rootCmd = &cobra.Command{
	Use:           "dxcam",
	Short:         "Reshape captured desktop frames",
	Long:          `dxcam replays raw desktop-duplication surfaces through the frame processor: rotation is undone, pitch padding stripped, the region cropped and the color layout converted.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var processCmd = &cobra.Command{
	Use:   "process <dump.yaml>...",
	Short: "Process raw frame dumps into PNG files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, args)
	},
}

var synthCmd = &cobra.Command{
	Use:   "synth <out-dir>",
	Short: "Write a test-pattern dump as a rotated adapter would map it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSynth(args[0])
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <dump.yaml>",
	Short: "Show which bytes of a dump a region reads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(args[0])
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dxcam v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dxcam.yaml)")

	processCmd.Flags().StringVar(&colorFlag, "color", "", "output color mode: NATIVE, BGRA, RGB, RGBA, BGR, GRAY (overrides config)")
	processCmd.Flags().StringVar(&regionFlag, "region", "", "crop region left,top,right,bottom (default whole surface)")
	processCmd.Flags().StringVar(&outFlag, "out", "", "output directory (overrides config)")
	processCmd.Flags().IntVar(&workerFlag, "workers", 0, "concurrent dumps (overrides config)")

	synthCmd.Flags().IntVar(&synthWidth, "width", 64, "logical desktop width")
	synthCmd.Flags().IntVar(&synthHeight, "height", 48, "logical desktop height")
	synthCmd.Flags().IntVar(&synthRotation, "rotation", 0, "adapter rotation in degrees (0, 90, 180, 270)")
	synthCmd.Flags().IntVar(&synthPad, "pad", 8, "pitch padding per row, in pixels")
	synthCmd.Flags().StringVar(&synthName, "name", "synth", "dump base name")

	planCmd.Flags().StringVar(&regionFlag, "region", "", "crop region left,top,right,bottom (default whole surface)")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config, applies command-line overrides and only then
// validates, so flag values are clamped like file values.
func loadConfig(overrides func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if overrides != nil {
		overrides(cfg)
	}
	logging.Init(cfg.LogFormat, cfg.LogLevel, nil)
	cfg.Validate()
	return cfg, nil
}

func processOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		if cmd.Flags().Changed("color") {
			cfg.ColorMode = colorFlag
		}
		if outFlag != "" {
			cfg.OutputDir = outFlag
		}
		if workerFlag > 0 {
			cfg.Workers = workerFlag
		}
	}
}

func runProcess(cmd *cobra.Command, paths []string) error {
	cfg, err := loadConfig(processOverrides(cmd))
	if err != nil {
		return err
	}

	mode, err := frame.ParseColorMode(cfg.ColorMode)
	if err != nil {
		return err
	}
	proc, err := frame.New(mode)
	if err != nil {
		return err
	}

	runner := &batch.Runner{
		Processor: proc,
		Pool:      workerpool.New(cfg.Workers, cfg.QueueSize),
		OutputDir: cfg.OutputDir,
	}
	if regionFlag != "" {
		region, err := frame.ParseRegion(regionFlag)
		if err != nil {
			return err
		}
		runner.Region = &region
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, logging.L("batch").With(logging.KeyColorMode, proc.Mode().String()))

	start := time.Now()
	results := runner.Run(ctx, paths)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runner.Pool.Shutdown(shutdownCtx)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Input, res.Err)
			continue
		}
		fmt.Printf("%s -> %s (%dx%dx%d)\n", res.Input, res.Output, res.Rows, res.Cols, res.Channels)
	}

	log.Info("batch finished",
		"dumps", len(results),
		"failed", failed,
		logging.KeyColorMode, proc.Mode().String(),
		logging.KeyDurationMs, time.Since(start).Milliseconds(),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d dumps failed", failed, len(results))
	}
	return nil
}

func runSynth(dir string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}
	d, pix, err := rawdump.Synthesize(synthWidth, synthHeight, frame.Rotation(synthRotation), synthPad, rawdump.Pattern)
	if err != nil {
		return err
	}
	path, err := rawdump.Write(dir, synthName, d, pix)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runPlan(path string) error {
	if _, err := loadConfig(nil); err != nil {
		return err
	}
	dump, err := rawdump.Open(path)
	if err != nil {
		return err
	}
	defer dump.Close()

	region := frame.FullRegion(dump.Width, dump.Height)
	if regionFlag != "" {
		if region, err = frame.ParseRegion(regionFlag); err != nil {
			return err
		}
	}

	proc, err := frame.New(frame.ColorNative)
	if err != nil {
		return err
	}
	band, err := proc.Plan(dump.Frame(), dump.Width, dump.Height, region, dump.Angle())
	if err != nil {
		return err
	}

	total := len(dump.Frame().Bits)
	fmt.Printf("surface    %dx%d rotated %d, pitch %d bytes (%d pixels, %d padding)\n",
		dump.Width, dump.Height, dump.Angle(), dump.Pitch, band.PitchPixels, band.PitchPixels-band.RowPixels)
	fmt.Printf("region     %s -> %dx%d\n", region, region.Dx(), region.Dy())
	fmt.Printf("band       rows %d at offset %d, %d of %d bytes\n", band.Rows, band.Offset, band.Length, total)
	return nil
}
