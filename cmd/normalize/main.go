package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DrSh4dow/vision/internal/dst"
	"github.com/DrSh4dow/vision/internal/normalize"
	"github.com/DrSh4dow/vision/internal/stitchplan"
)

// #region main

func main() {
	input := flag.String("input", "", "input embroidery file (.dst)")
	output := flag.String("output", "", "output design JSON path")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "usage: normalize --input design.dst --output design.json")
		os.Exit(2)
	}

	reader, err := readerFor(*input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if err := normalize.New(reader).Run(*input, *output); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region reader-select

// readerFor picks the decoder for the input file by extension.
func readerFor(path string) (stitchplan.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dst":
		return dst.NewReader(), nil
	default:
		return nil, fmt.Errorf("unsupported embroidery format: %s", filepath.Ext(path))
	}
}

// #endregion reader-select
