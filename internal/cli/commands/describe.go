package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/orglens/orglens/internal/cli/ui"
	"github.com/orglens/orglens/internal/schema"
	"github.com/orglens/orglens/internal/store"
)

var describeJSON bool

// NewDescribeCommand creates the describe command
func NewDescribeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe <object>",
		Short: "Show an object's fields and child relationships",
		Args:  cobra.ExactArgs(1),
		Example: `  # Field-by-field breakdown
  orglens describe Account

  # API names are matched case-insensitively
  orglens describe invoice__c --json`,
		RunE: runDescribe,
	}

	cmd.Flags().BoolVar(&describeJSON, "json", false, "output the entity document as JSON")

	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	ws, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	entity, err := ws.Store.LoadEntity(args[0])
	if err != nil {
		if store.IsNotFound(err) {
			return ui.UnknownObject(args[0], knownObjectNames(ws.Store))
		}
		return err
	}

	return output(cmd, describeJSON, entity, func(w io.Writer) error {
		kv := ui.NewKeyValue(w)
		kv.Add("Name", entity.Name)
		kv.Add("Label", entity.Label)
		if entity.LabelPlural != "" {
			kv.Add("Plural", entity.LabelPlural)
		}
		kv.Add("Custom", yesNo(entity.Custom))
		kv.Add("Fields", fmt.Sprintf("%d", len(entity.Fields)))
		kv.Render()
		fmt.Fprintln(w)

		table := ui.NewTable(w, "Field", "Type", "Required", "Details")
		for i := range entity.Fields {
			f := &entity.Fields[i]
			table.AddRow(f.Name, string(f.Type), yesNo(f.Required), fieldDetails(f))
		}
		table.Render()

		if len(entity.ChildRelationships) > 0 {
			fmt.Fprintln(w)
			section := ui.NewSection(w, fmt.Sprintf("Child relationships (%d)", len(entity.ChildRelationships)))
			for _, rel := range entity.ChildRelationships {
				line := fmt.Sprintf("%s.%s", rel.ChildSObject, rel.Field)
				if rel.RelationshipName != "" {
					line += fmt.Sprintf(" (%s)", rel.RelationshipName)
				}
				section.AddLine(line)
			}
			section.Render()
		}
		return nil
	})
}

// fieldDetails summarizes the interesting part of a field in one cell.
func fieldDetails(f *schema.Field) string {
	switch {
	case f.IsRelationship():
		return "-> " + strings.Join(f.ReferenceTo, ", ")
	case len(f.PicklistValues) > 3:
		return fmt.Sprintf("%s, ... (%d values)", strings.Join(f.PicklistValues[:3], ", "), len(f.PicklistValues))
	case len(f.PicklistValues) > 0:
		return strings.Join(f.PicklistValues, ", ")
	case f.ExternalID:
		return "external id"
	}
	return ""
}
