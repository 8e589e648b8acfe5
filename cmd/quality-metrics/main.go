package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/DrSh4dow/vision/internal/design"
	"github.com/DrSh4dow/vision/internal/quality"
)

// #region main

func main() {
	input := flag.String("input", "", "input design JSON path")
	out := flag.String("out", "", "optional output path (default: stdout)")
	stitchLength := flag.Float64("stitch-length", quality.DefaultStitchLength, "target stitch length in mm")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: quality-metrics --input design.json [--stitch-length mm] [--out file]")
		os.Exit(2)
	}

	if err := run(*input, *out, *stitchLength); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region run

func run(inputPath, outPath string, stitchLength float64) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read design %s: %w", inputPath, err)
	}

	var d design.Design
	if err := json.Unmarshal(data, &d); err != nil {
		return fmt.Errorf("parse design %s: %w", inputPath, err)
	}

	output := quality.Output{
		Route:   quality.ComputeRouteMetrics(&d),
		Quality: quality.ComputeMetrics(&d, stitchLength),
	}

	rendered, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize metrics: %w", err)
	}

	if outPath == "" {
		fmt.Println(string(rendered))
		return nil
	}
	if err := os.WriteFile(outPath, rendered, 0o644); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// #endregion run
