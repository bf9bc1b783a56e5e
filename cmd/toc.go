package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/mdtree/internal/document"
	"github.com/itsmostafa/mdtree/internal/outline"
)

var tocJSON bool

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("160"))

var tocCmd = &cobra.Command{
	Use:   "toc [file]",
	Short: "Print the outline of a document",
	Long:  `Print the heading tree of a Markdown or Org document, with the line number of each heading.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := document.Open(fileArg(args))
		if err != nil {
			return err
		}
		if !doc.Kind().Supported() {
			return fmt.Errorf("%s: not a Markdown or Org document", doc.Name())
		}

		o, err := outline.Build(doc)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if tocJSON {
			fmt.Fprintln(out, o.String())
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s)", o.Name, o.Kind)))
		fmt.Fprint(out, outline.PrintTOC(o))
		return nil
	},
}

func init() {
	tocCmd.Flags().BoolVar(&tocJSON, "json", false, "Print the outline as JSON")
	rootCmd.AddCommand(tocCmd)
}
