package cli

import (
	"fmt"
	"math/rand/v2"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/HatiCode/wastepredict/pkg/dataset"
	"github.com/HatiCode/wastepredict/pkg/models"
)

func newPredictCmd(opts *options) *cobra.Command {
	var model string
	in := models.DefaultInputs()
	values := make(map[dataset.Feature]*float64, len(in))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Apply the pseudo-model formulas to feature inputs",
		Example: `  # Every model at the default inputs
  wastectl predict

  # Random forest with a larger population
  wastectl predict --model=rf --population=9500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := models.Kinds
			if model != "" && model != "all" {
				k, err := models.ParseKind(model)
				if err != nil {
					return err
				}
				kinds = []models.Kind{k}
			}

			for f, v := range values {
				in[f] = *v
			}

			var src models.Source
			if opts.seed != 0 {
				src = rand.New(rand.NewPCG(opts.seed, opts.seed))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "MODEL\tTONS")
			for _, k := range kinds {
				tons, err := models.Predict(k, in, src)
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "%s\t%.0f\n", k.Coefficients().Display, tons)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "all", "model: rf, lr, xgb or all")
	for _, f := range dataset.Features {
		v := in[f]
		values[f] = &v
		cmd.Flags().Float64Var(values[f], string(f), v, fmt.Sprintf("%s input", f))
	}

	return cmd
}
