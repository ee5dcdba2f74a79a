package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/flow/store"
)

// flowsCommand creates the flows command group for store management.
func (c *CLI) flowsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flows",
		Short: "Manage stored dialog flows",
	}

	cmd.AddCommand(c.flowsListCommand())
	cmd.AddCommand(c.flowsShowCommand())
	cmd.AddCommand(c.flowsImportCommand())
	cmd.AddCommand(c.flowsDeleteCommand())
	cmd.AddCommand(c.flowsPickCommand())

	return cmd
}

func (c *CLI) flowsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List flows in the configured store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list flows: %w", err)
			}
			if len(summaries) == 0 {
				printInfo("No flows stored yet")
				printNextStep("Import one", "storyflow flows import <flow.json>")
				return nil
			}
			for _, s := range summaries {
				name := s.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%s  %s\n", StyleValue.Render(s.ID), StyleDim.Render(
					fmt.Sprintf("%s · %d modules · %d edges", name, s.Modules, s.Edges)))
			}
			return nil
		},
	}
}

func (c *CLI) flowsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <flow-id>",
		Short: "Print a stored flow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			f, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load flow %s: %w", args[0], err)
			}
			printKeyValue("id", f.ID)
			if f.Name != "" {
				printKeyValue("name", f.Name)
			}
			printKeyValue("modules", fmt.Sprintf("%d", len(f.Modules())))
			printKeyValue("nodes", fmt.Sprintf("%d", f.NodeCount()))
			printKeyValue("edges", fmt.Sprintf("%d", f.EdgeCount()))
			return flow.WriteFlow(f, os.Stdout)
		},
	}
}

func (c *CLI) flowsImportCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "import <flow.json>",
		Short: "Import a flow file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := flow.ReadFlowFile(args[0])
			if err != nil {
				return fmt.Errorf("load flow %s: %w", args[0], err)
			}
			if id != "" {
				f.ID = id
			}

			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			prog := newProgress(loggerFromContext(cmd.Context()))
			if err := st.Save(cmd.Context(), f); err != nil {
				return fmt.Errorf("save flow: %w", err)
			}
			prog.done(fmt.Sprintf("Saved %d nodes to the %s store", f.NodeCount(), st.Name()))
			printSuccess("Imported %s", f.ID)
			printNextStep("Lay it out", "storyflow layout "+f.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "store under this id instead of the document's own")
	return cmd
}

func (c *CLI) flowsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <flow-id>",
		Short: "Delete a flow from the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("delete flow %s: %w", args[0], err)
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

func (c *CLI) flowsPickCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Interactively pick a flow and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list flows: %w", err)
			}
			if len(summaries) == 0 {
				printWarning("No flows to pick from")
				return nil
			}

			model := NewFlowListModel(summaries)
			final, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
			if err != nil {
				return fmt.Errorf("run picker: %w", err)
			}

			picked, ok := final.(FlowListModel)
			if !ok || picked.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}
			fmt.Println(picked.Selected.ID)
			printNextStep("Lay it out", "storyflow layout "+picked.Selected.ID)
			return nil
		},
	}
}

// openStore builds just the store, without the pipeline runner.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
