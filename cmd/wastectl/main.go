// Command wastectl generates, summarizes, and exports WastePredict datasets
// and runs the pseudo-model formulas offline.
//
// Usage:
//
//	wastectl generate --seed=42 --format=xlsx -o dataset.xlsx
//	wastectl stats --profile=davao.yaml
//	wastectl correlate
//	wastectl predict --model=rf --population=9000
package main

import (
	"fmt"
	"os"

	"github.com/HatiCode/wastepredict/cmd/wastectl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
