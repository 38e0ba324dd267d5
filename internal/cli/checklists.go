package cli

import (
	"errors"
	"fmt"

	"preflight-cli/internal/doc"
	"preflight-cli/internal/model"
	"preflight-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newChecklistsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklists",
		Short: "Manage checklists and groups within a file",
	}
	cmd.AddCommand(newChecklistsListCmd(app))
	cmd.AddCommand(newChecklistsAddCmd(app))
	cmd.AddCommand(newChecklistsRenameCmd(app))
	cmd.AddCommand(newChecklistsRemoveCmd(app))
	cmd.AddCommand(newChecklistsMoveCmd(app))
	cmd.AddCommand(newChecklistsCopyCmd(app))
	cmd.AddCommand(newGroupsAddCmd(app))
	return cmd
}

func newChecklistsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups and their checklists",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := workspaceStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := s.LoadFile(name)
			if err != nil {
				return writeErr(cmd, err)
			}

			type checklistRow struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Items int    `json:"items"`
			}
			type groupRow struct {
				ID         string              `json:"id"`
				Name       string              `json:"name"`
				Category   model.GroupCategory `json:"category"`
				Checklists []checklistRow      `json:"checklists"`
			}
			rows := make([]groupRow, 0, len(f.Groups))
			for _, g := range f.Groups {
				gr := groupRow{ID: g.ID, Name: g.Name, Category: g.Category, Checklists: []checklistRow{}}
				for _, c := range g.Checklists {
					gr.Checklists = append(gr.Checklists, checklistRow{ID: c.ID, Name: c.Name, Items: len(c.Items)})
				}
				rows = append(rows, gr)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"groups": rows}})
		},
	}
}

func newChecklistsAddCmd(app *App) *cobra.Command {
	var groupID, name string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an empty checklist to a group",
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if name == "" {
				return writeErr(cmd, errors.New("--name is required"))
			}
			d, s, err := openDoc(app, fileName)
			if err != nil {
				return writeErr(cmd, err)
			}
			f := d.Files()[0]

			gid := groupID
			if gid == "" {
				if len(f.Groups) != 1 {
					return writeErr(cmd, errors.New("--group is required when the file has more than one group"))
				}
				gid = f.Groups[0].ID
			}

			res := d.AddChecklist(f.ID, gid, name)
			if res.Changed {
				if err := saveDirty(d, s); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": res.Changed, "id": res.ID},
			})
		},
	}
	cmd.Flags().StringVar(&groupID, "group", "", "Group id (optional when the file has exactly one group)")
	cmd.Flags().StringVar(&name, "name", "", "Checklist name")
	return cmd
}

func newGroupsAddCmd(app *App) *cobra.Command {
	var name, category string
	cmd := &cobra.Command{
		Use:   "add-group",
		Short: "Add an empty group to the file",
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if name == "" {
				return writeErr(cmd, errors.New("--name is required"))
			}
			cat, ok := model.ParseGroupCategory(category)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid category: %q (expected normal|emergency|abnormal)", category))
			}
			d, s, err := openDoc(app, fileName)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.AddGroup(d.Files()[0].ID, name, cat)
			if res.Changed {
				if err := saveDirty(d, s); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": res.Changed, "id": res.ID},
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Group name")
	cmd.Flags().StringVar(&category, "category", "normal", "Group category (normal|emergency|abnormal)")
	return cmd
}

func newChecklistsRenameCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rename <checklist>",
		Short: "Rename a checklist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if name == "" {
				return writeErr(cmd, errors.New("--name is required"))
			}
			d, s, err := openDoc(app, fileName)
			if err != nil {
				return writeErr(cmd, err)
			}
			f := d.Files()[0]
			cklID, err := resolveChecklist(f, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.RenameChecklist(f.ID, cklID, name)
			if res.Changed {
				if err := saveDirty(d, s); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": res.Changed, "id": res.ID},
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New checklist name")
	return cmd
}

func newChecklistsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <checklist>",
		Short: "Delete a checklist and all its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			d, s, err := openDoc(app, fileName)
			if err != nil {
				return writeErr(cmd, err)
			}
			f := d.Files()[0]
			cklID, err := resolveChecklist(f, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.RemoveChecklist(f.ID, cklID)
			if res.Changed {
				if err := saveDirty(d, s); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": res.Changed, "id": res.ID},
			})
		},
	}
}

func newChecklistsMoveCmd(app *App) *cobra.Command {
	return newChecklistTransferCmd(app, "move", "Move a checklist to another group or file")
}

func newChecklistsCopyCmd(app *App) *cobra.Command {
	return newChecklistTransferCmd(app, "copy", "Copy a checklist (fresh ids) to another group or file")
}

func newChecklistTransferCmd(app *App, verb, short string) *cobra.Command {
	var toGroup, toFile string
	var index int
	cmd := &cobra.Command{
		Use:   verb + " <checklist>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileName, err := requireFile(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if toGroup == "" {
				return writeErr(cmd, errors.New("--to-group is required"))
			}

			names := []string{fileName}
			if toFile != "" && toFile != fileName {
				names = append(names, toFile)
			}
			d, s, err := openDoc(app, names...)
			if err != nil {
				return writeErr(cmd, err)
			}
			src := d.Files()[0]
			cklID, err := resolveChecklist(src, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			srcGroup, ok := groupOfChecklist(src, cklID)
			if !ok {
				return writeErr(cmd, fmt.Errorf("no checklist %q in %s", cklID, src.Name))
			}

			res := transferChecklist(d, verb, src.ID, cklID, srcGroup, toGroup, index, len(names) == 2)
			if res.Changed {
				if err := saveDirty(d, s); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"changed": res.Changed, "id": res.ID},
			})
		},
	}
	cmd.Flags().StringVar(&toGroup, "to-group", "", "Target group id")
	cmd.Flags().StringVar(&toFile, "to-file", "", "Target file name (defaults to the source file)")
	cmd.Flags().IntVar(&index, "index", -1, "Insert position in the target group (-1 appends)")
	return cmd
}

func transferChecklist(d *doc.Store, verb, srcFileID, checklistID, srcGroupID, dstGroupID string, index int, crossFile bool) mutate.Result {
	if crossFile {
		dstFileID := d.Files()[1].ID
		if verb == "copy" {
			return d.CopyChecklistAcrossFiles(srcFileID, dstFileID, srcGroupID, dstGroupID, checklistID, index)
		}
		return d.MoveChecklistAcrossFiles(srcFileID, dstFileID, srcGroupID, dstGroupID, checklistID, index)
	}
	if verb == "copy" {
		return d.CopyChecklist(srcFileID, srcGroupID, dstGroupID, checklistID, index)
	}
	return d.MoveChecklist(srcFileID, srcGroupID, dstGroupID, checklistID, index)
}
