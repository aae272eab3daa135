// Package main tunes the camera smoothing coefficients: given target
// settle times, it searches for the coefficients that produce them at the
// configured tick rate and writes a ready-to-use config.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/battlecam/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	horizontal := flag.Float64("horizontal", 0.35, "Target horizontal settle time in seconds")
	vertical := flag.Float64("vertical", 0.30, "Target vertical settle time in seconds")
	rotation := flag.Float64("rotation", 0.20, "Target rotation settle time in seconds")
	maxEvals := flag.Int("max-evals", 400, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	evaluator := NewEvaluator(cfg, Targets{
		Horizontal: *horizontal,
		Vertical:   *vertical,
		Rotation:   *rotation,
	})

	// Evaluation log
	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	logWriter := csv.NewWriter(logFile)
	defer logWriter.Flush()
	logWriter.Write([]string{"eval", "fitness", "horizontal", "vertical", "rotation"})

	evalCount := 0
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(x)
			evalCount++
			logWriter.Write([]string{
				strconv.Itoa(evalCount),
				fmt.Sprintf("%.6f", fitness),
				fmt.Sprintf("%.6f", x[0]),
				fmt.Sprintf("%.6f", x[1]),
				fmt.Sprintf("%.6f", x[2]),
			})
			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
	}

	initX := []float64{
		cfg.Camera.HorizontalSmoothing,
		cfg.Camera.VerticalSmoothing,
		cfg.Camera.PanSmoothing,
	}

	result, err := optimize.Minimize(problem, initX, settings, &optimize.NelderMead{})
	if err != nil {
		log.Fatalf("optimization failed: %v", err)
	}

	fmt.Printf("Converged after %d evaluations, fitness %.6f\n", evalCount, result.F)
	fmt.Printf("  horizontal_smoothing: %.4f\n", result.X[0])
	fmt.Printf("  vertical_smoothing:   %.4f\n", result.X[1])
	fmt.Printf("  pan_smoothing:        %.4f\n", result.X[2])

	tuned := cfg.Clone()
	tuned.Camera.HorizontalSmoothing = result.X[0]
	tuned.Camera.VerticalSmoothing = result.X[1]
	tuned.Camera.PanSmoothing = result.X[2]
	if err := tuned.Validate(); err != nil {
		log.Fatalf("tuned config failed validation: %v", err)
	}

	outPath := filepath.Join(*outputDir, "tuned_config.yaml")
	if err := tuned.WriteYAML(outPath); err != nil {
		log.Fatalf("failed to write tuned config: %v", err)
	}
	fmt.Printf("Wrote %s\n", outPath)
}
