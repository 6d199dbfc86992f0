// Package cli defines the wastectl commands.
package cli

import (
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/HatiCode/wastepredict/pkg/dataset"
)

// options are the flags shared by every subcommand.
type options struct {
	profile   string
	seed      uint64
	startYear int
	months    int
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the wastectl command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "wastectl",
		Short:         "Synthetic municipal waste datasets and pseudo-model predictions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.profile, "profile", "", "YAML generator profile (default parameters when empty)")
	root.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "random seed (0 draws a fresh seed)")
	root.PersistentFlags().IntVar(&opts.startYear, "start-year", dataset.DefaultStartYear, "first generated year")
	root.PersistentFlags().IntVar(&opts.months, "months", dataset.DefaultMonths, "number of generated months")

	root.AddCommand(
		newGenerateCmd(opts),
		newStatsCmd(opts),
		newCorrelateCmd(opts),
		newPredictCmd(opts),
	)

	return root
}

// generate builds a dataset from the shared flags.
func (o *options) generate() (dataset.Dataset, error) {
	profile := dataset.DefaultProfile()
	if o.profile != "" {
		p, err := dataset.LoadProfile(o.profile)
		if err != nil {
			return dataset.Dataset{}, err
		}
		profile = p
	}
	if err := profile.Validate(); err != nil {
		return dataset.Dataset{}, err
	}

	var src dataset.Source
	if o.seed != 0 {
		src = rand.New(rand.NewPCG(o.seed, o.seed))
	}

	return dataset.NewGenerator(profile, o.startYear, src).Generate(o.months)
}
