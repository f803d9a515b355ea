package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <smiles>",
		Short: "Parse a SMILES string and print the perceived molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := opts.newService(cfg)
			if err != nil {
				return err
			}
			info, err := svc.Parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plain := fmt.Sprintf("%s\n  formula: %s\n  weight:  %.3f\n  atoms:   %d\n  bonds:   %d\n  rings:   %d",
				info.CanonicalSMILES, info.Formula, info.Weight,
				info.AtomCount, info.BondCount, info.RingCount)
			return opts.printResult(cmd, info, plain)
		},
	}
}

func newCanonicalizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "canonicalize <smiles>",
		Short: "Print the canonical SMILES rendering (parse → perceive → write)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := opts.newService(cfg)
			if err != nil {
				return err
			}
			out, err := svc.Canonicalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd,
				map[string]string{"canonical_smiles": out}, out)
		},
	}
}

func newKekulizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kekulize <smiles>",
		Short: "Resolve delocalized bonds into alternating single/double bonds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := opts.newService(cfg)
			if err != nil {
				return err
			}
			out, err := svc.Kekulize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd, map[string]string{"smiles": out}, out)
		},
	}
}

func newDelocalizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delocalize <smiles>",
		Short: "Collapse qualifying kekulized rings onto delocalized bonds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := opts.newService(cfg)
			if err != nil {
				return err
			}
			out, err := svc.Delocalize(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.printResult(cmd, map[string]string{"smiles": out}, out)
		},
	}
}

func newSimilarityCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "similarity <smiles-a> <smiles-b>",
		Short: "Tanimoto similarity of two molecules' path fingerprints",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			svc, err := opts.newService(cfg)
			if err != nil {
				return err
			}
			sim, err := svc.Similarity(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return opts.printResult(cmd,
				map[string]float64{"similarity": sim}, fmt.Sprintf("%.4f", sim))
		},
	}
}
