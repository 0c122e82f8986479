package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/codequiz/internal/authoring"
	"github.com/abhisek/codequiz/internal/catalog"
	"github.com/abhisek/codequiz/internal/llm"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and extend the question catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog topics and questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")

		cfg, _, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, t := range c.Topics {
			if topic != "" && !strings.EqualFold(t.Name, topic) {
				continue
			}
			fmt.Fprintf(out, "%s (%d questions, %d alternates)\n", t.Name, len(t.Templates), len(t.Alternates))
			for _, tmpl := range t.Templates {
				fmt.Fprintf(out, "  %-56s  → %s\n", truncate(tmpl.Prompt, 56), tmpl.CorrectText())
			}
			shown++
		}
		if shown == 0 {
			return fmt.Errorf("no topic named %q (have: %s)", topic, strings.Join(c.TopicNames(), ", "))
		}
		fmt.Fprintf(out, "\ncatalog %s: %d topics, %d questions\n", c.Version, len(c.Topics), c.Size())
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a catalog file against the schema and content rules",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := setupCLI(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.CatalogPath = args[0]
		}
		c, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		name := cfg.CatalogPath
		if name == "" {
			name = "built-in catalog"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%s, %d topics, %d questions)\n", name, c.Version, len(c.Topics), c.Size())
		return nil
	},
}

var catalogDraftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft new questions for a topic with an LLM",
	Long: `Ask the configured LLM provider for new questions on a topic.

Drafts are checked against the catalog rules and against existing prompts.
Accepted drafts are merged into the catalog and written to --out (or the
--catalog file). The catalog minor version is bumped on every write.

The provider is chosen from CODEQUIZ_LLM_PROVIDER or discovered from
ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		outPath, _ := cmd.Flags().GetString("out")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		d, err := openCLI(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if outPath == "" {
			outPath = d.cfg.CatalogPath
		}
		if outPath == "" && !dryRun {
			return fmt.Errorf("--out is required when using the built-in catalog")
		}

		c, err := loadCatalog(d.cfg)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv(), d.store.Events(), d.log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		drafter := authoring.NewDrafter(provider, c, authoring.DefaultConfig()).WithLogger(d.log)
		res, err := drafter.Draft(ctx, topic, count)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, t := range res.Accepted {
			fmt.Fprintf(out, "✓ %s\n    → %s\n", t.Prompt, t.CorrectText())
		}
		for _, r := range res.Rejected {
			fmt.Fprintf(out, "✗ %s\n    (%s)\n", r.Template.Prompt, r.Reason)
		}
		fmt.Fprintf(out, "\n%d accepted, %d rejected\n", len(res.Accepted), len(res.Rejected))

		if dryRun || len(res.Accepted) == 0 {
			return nil
		}

		merged, err := c.Merge(res.Topic, res.Accepted)
		if err != nil {
			return fmt.Errorf("merge drafts: %w", err)
		}
		if merged.Version, err = catalog.BumpMinor(c.Version); err != nil {
			return err
		}
		if err := catalog.Save(outPath, merged); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s (%s)\n", outPath, merged.Version)
		return nil
	},
}

func init() {
	catalogListCmd.Flags().String("topic", "", "Only show this topic")

	catalogDraftCmd.Flags().String("topic", "", "Topic to draft questions for (required)")
	catalogDraftCmd.Flags().Int("count", 5, "Number of questions to ask for")
	catalogDraftCmd.Flags().String("out", "", "Catalog file to write (defaults to --catalog)")
	catalogDraftCmd.Flags().Bool("dry-run", false, "Show drafts without writing")
	_ = catalogDraftCmd.MarkFlagRequired("topic")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogDraftCmd)
	catalogCmd.AddCommand(catalogPreviewCmd)
}
