package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/particlelife/config"
	"github.com/pthm-cable/particlelife/policies"
)

// evalRecord is one row of search_log.csv.
type evalRecord struct {
	Eval      int     `csv:"eval"`
	Fitness   float64 `csv:"fitness"`
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP90  float64 `csv:"speed_p90"`
	ElapsedS  float64 `csv:"elapsed_s"`
}

// bestMatrix is written to best_matrix.yaml.
type bestMatrix struct {
	Fitness float64     `yaml:"fitness"`
	Types   int         `yaml:"types"`
	Matrix  [][]float64 `yaml:"matrix"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	types := flag.Int("types", 4, "Number of particle types (matrix size)")
	particles := flag.Int("particles", 2000, "Particles per run")
	ticks := flag.Int("ticks", 300, "Ticks per run")
	seeds := flag.Int("seeds", 2, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 100, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := *config.Cfg()
	baseCfg.Population.Count = *particles

	params := MatrixParams{Size: *types}

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, *ticks, evalSeeds, &baseCfg)

	// start from a random matrix
	initX := params.Normalize(policies.NewRandomMatrix(1, false).Generate(*types))

	dim := params.Dim()
	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	var records []evalRecord
	bestFitness := 1e9
	var bestX []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			fitness := evaluator.Evaluate(x)
			ws := evaluator.LastStats()

			if fitness < bestFitness {
				bestFitness = fitness
				bestX = append(bestX[:0], x...)
			}

			elapsed := time.Since(startTime)
			records = append(records, evalRecord{
				Eval:      len(records) + 1,
				Fitness:   fitness,
				SpeedMean: ws.SpeedMean,
				SpeedP90:  ws.SpeedP90,
				ElapsedS:  elapsed.Seconds(),
			})

			n := len(records)
			remaining := time.Duration(*maxEvals-n) * (elapsed / time.Duration(n))
			fmt.Printf("Eval %d/%d: speed=%.4f (best=%.4f) | elapsed: %s, ETA: %s\n",
				n, *maxEvals, ws.SpeedMean, -bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // the simulation already uses all cores
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	fmt.Printf("Starting CMA-ES matrix search with %d types, population=%d, max_evals=%d\n",
		*types, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d, particles: %d\n", *seeds, *ticks, *particles)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestX == nil && result != nil {
		bestX = result.X
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", len(records), formatDuration(time.Since(startTime)))

	logPath := filepath.Join(*outputDir, "search_log.csv")
	if err := writeCSV(logPath, records); err != nil {
		log.Printf("failed to write search log: %v", err)
	}

	if bestX == nil {
		return
	}
	best := bestMatrix{
		Fitness: bestFitness,
		Types:   *types,
		Matrix:  params.Denormalize(bestX).Rows(),
	}
	bestPath := filepath.Join(*outputDir, "best_matrix.yaml")
	if err := writeYAML(bestPath, best); err != nil {
		log.Printf("failed to write best matrix: %v", err)
	} else {
		fmt.Printf("Best matrix saved to: %s\n", bestPath)
	}
}

func writeCSV(path string, records []evalRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	return gocsv.MarshalFile(&records, f)
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
