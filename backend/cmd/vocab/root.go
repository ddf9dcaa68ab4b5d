package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"vocabgraph/backend/internal/constants"
	"vocabgraph/backend/internal/ontology"
	"vocabgraph/backend/internal/stanza"
	apperrors "vocabgraph/backend/pkg/errors"
	"vocabgraph/backend/pkg/logger"
)

func rootCmd() *cobra.Command {
	var (
		env      string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect and combine relations of a controlled vocabulary",
		Long: `vocab loads a [Term]/[Typedef] stanza file and answers questions about
the relations between its categories.

Examples:
  vocab stats go.obo
  vocab show go.obo GO:0000002
  vocab invert go.obo GO:0000003 GO:0000004 --relation part_of
  vocab combine go.obo GO:0000004 --rel1 is_a --rel2 part_of --new myrel
  vocab select go.obo GO:0000004 --pick is_a=GO:0000002 --pick part_of=GO:0000003
  vocab dump go.obo
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(env, logLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development, production)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		statsCmd(),
		showCmd(),
		invertCmd(),
		combineCmd(),
		selectCmd(),
		dumpCmd(),
	)
	return cmd
}

func load(path string) (*ontology.Store, error) {
	return ontology.LoadFile(path, logger.Named("ontology"))
}

func category(s *ontology.Store, id string) (*ontology.Category, error) {
	c, ok := s.Category(id)
	if !ok {
		return nil, apperrors.NewUnresolvedReference("category", id, "")
	}
	return c, nil
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Count categories, relations and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			st := s.Stats()
			fmt.Fprintf(out, "categories: %d\nrelations: %d\npairs: %d\n", st.Categories, st.Relations, st.Pairs)
			for _, r := range s.Relations() {
				fmt.Fprintf(out, "  %s\t%d\ttransitive=%t\n", r.ID, r.Len(), r.IsTransitive)
			}
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show FILE ID",
		Short: "Print one category and its outgoing edges",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0])
			if err != nil {
				return err
			}
			c, err := category(s, args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, c)
			fmt.Fprintf(out, "def: %s\n", c.Definition)
			for _, r := range s.Relations() {
				for _, target := range r.Targets(c.ID) {
					fmt.Fprintf(out, "%s -> %s\n", r.ID, target)
				}
			}
			return nil
		},
	}
}

func invertCmd() *cobra.Command {
	var relation string

	cmd := &cobra.Command{
		Use:   "invert FILE CATEGORY1 CATEGORY2",
		Short: "Check whether CATEGORY2 -> CATEGORY1 holds and print the reversed pair",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0])
			if err != nil {
				return err
			}
			c1, err := category(s, args[1])
			if err != nil {
				return err
			}
			c2, err := category(s, args[2])
			if err != nil {
				return err
			}

			inv, err := s.Invert(c1, c2, relation)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !inv.Related {
				fmt.Fprintf(out, "%s and %s are not related through '%s'\n", c2, c1, relation)
				return nil
			}
			fmt.Fprintf(out, "[%s, %s]\n", inv.Pair[0], inv.Pair[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&relation, "relation", constants.DefaultInvertRelation, "relation to check")
	return cmd
}

func combineCmd() *cobra.Command {
	var rel1, rel2, newRelation string

	cmd := &cobra.Command{
		Use:   "combine FILE CATEGORY",
		Short: "Derive a relation from the union of two relations for one category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0])
			if err != nil {
				return err
			}
			c, err := category(s, args[1])
			if err != nil {
				return err
			}
			r, err := s.CombineTwoRelations(c, rel1, rel2, newRelation)
			if err != nil {
				return err
			}
			return printRelation(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringVar(&rel1, "rel1", "", "first relation id")
	cmd.Flags().StringVar(&rel2, "rel2", "", "second relation id")
	cmd.Flags().StringVar(&newRelation, "new", constants.DefaultDerivedRelation, "id of the derived relation")
	_ = cmd.MarkFlagRequired("rel1")
	_ = cmd.MarkFlagRequired("rel2")
	return cmd
}

func selectCmd() *cobra.Command {
	var (
		picks       []string
		newRelation string
	)

	cmd := &cobra.Command{
		Use:   "select FILE CATEGORY",
		Short: "Derive a relation from chosen (relation, category) pairs for one category",
		Long: `select keeps each --pick RELATION=CATEGORY whose edge really holds for
CATEGORY. A relation may be picked once; a repeated relation keeps the last pick.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			toCombine, err := parsePicks(picks)
			if err != nil {
				return err
			}
			s, err := load(args[0])
			if err != nil {
				return err
			}
			c, err := category(s, args[1])
			if err != nil {
				return err
			}
			r, err := s.CombineSpecificRelations(c, toCombine, newRelation)
			if err != nil {
				return err
			}
			return printRelation(cmd.OutOrStdout(), r)
		},
	}
	cmd.Flags().StringArrayVar(&picks, "pick", nil, "RELATION=CATEGORY choice (repeatable)")
	cmd.Flags().StringVar(&newRelation, "new", constants.DefaultDerivedRelation, "id of the derived relation")
	_ = cmd.MarkFlagRequired("pick")
	return cmd
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Re-serialize the loaded vocabulary in stanza format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(args[0])
			if err != nil {
				return err
			}
			return stanza.Write(cmd.OutOrStdout(), s.Records())
		},
	}
}

// parsePicks turns RELATION=CATEGORY flags into the selection map
func parsePicks(picks []string) (map[string]string, error) {
	out := make(map[string]string, len(picks))
	for _, p := range picks {
		rel, cat, ok := strings.Cut(p, "=")
		if !ok || rel == "" || cat == "" {
			return nil, apperrors.NewInvalidArgument("pick", fmt.Sprintf("%q is not RELATION=CATEGORY", p))
		}
		if prev, seen := out[rel]; seen {
			logger.Get().Warn("Relation picked twice, keeping the last choice",
				zap.String("relation", rel),
				zap.String("dropped", prev),
				zap.String("kept", cat),
			)
		}
		out[rel] = cat
	}
	return out, nil
}

func printRelation(w io.Writer, r *ontology.Relation) error {
	targets := map[string][]string{}
	for _, s := range r.Sources() {
		targets[s] = r.Targets(s)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		ID           string              `json:"id"`
		IsTransitive bool                `json:"is_transitive"`
		Pairs        map[string][]string `json:"pairs"`
	}{ID: r.ID, IsTransitive: r.IsTransitive, Pairs: targets})
}
