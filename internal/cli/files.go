package cli

import (
	"context"
	"fmt"

	"preflight-cli/internal/ids"
	"preflight-cli/internal/model"

	"github.com/spf13/cobra"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage checklist files in the workspace",
	}
	cmd.AddCommand(newFilesListCmd(app))
	cmd.AddCommand(newFilesCreateCmd(app))
	cmd.AddCommand(newFilesShowCmd(app))
	return cmd
}

func newFilesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List checklist files",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := workspaceStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			names, err := s.ListFiles()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"files":  names,
					"recent": s.RecentFiles(context.Background(), 5),
				},
			})
		},
	}
}

func newFilesCreateCmd(app *App) *cobra.Command {
	var aircraftMake, aircraftModel string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new checklist file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			s, err := workspaceStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			// Bad names fail in SaveFile; here we only guard against
			// clobbering an existing document.
			if _, err := s.LoadFile(name); err == nil {
				return writeErr(cmd, fmt.Errorf("file %q already exists", name))
			}

			f := model.File{
				ID:   ids.New(ids.PrefixFile),
				Name: name,
				Metadata: model.Metadata{
					AircraftMake:  aircraftMake,
					AircraftModel: aircraftModel,
				},
				Groups: []model.Group{{
					ID:       ids.New(ids.PrefixGroup),
					Name:     "Normal",
					Category: model.CategoryNormal,
					Checklists: []model.Checklist{{
						ID:    ids.New(ids.PrefixChecklist),
						Name:  "Main",
						Items: []model.Item{},
					}},
				}},
			}
			if err := s.SaveFile(f); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"name": f.Name,
					"id":   f.ID,
				},
			})
		},
	}
	cmd.Flags().StringVar(&aircraftMake, "make", "", "Aircraft make, e.g. Cessna")
	cmd.Flags().StringVar(&aircraftModel, "model", "", "Aircraft model, e.g. 172S")
	return cmd
}

func newFilesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Print a checklist file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				app.File = args[0]
			}
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
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}
}
