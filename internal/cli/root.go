package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"preflight-cli/internal/doc"
	"preflight-cli/internal/format"
	"preflight-cli/internal/model"
	"preflight-cli/internal/store"
	"preflight-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	File       string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "preflight",
		Short:        "Aviation checklist editor (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive editor
  preflight

  # Scriptable commands
  preflight files list
  preflight checklists list --file N123AB
  preflight items add --file N123AB --checklist ckl-ab12cd34 --challenge "Master switch" --response ON
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("PREFLIGHT_DIR", ""), "Path to workspace dir (default: discovered .preflight)")
	cmd.PersistentFlags().StringVar(&app.File, "file", envOr("PREFLIGHT_FILE", ""), "Checklist file name to operate on")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("PREFLIGHT_FORMAT", "json"), "Output format (json)")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newFilesCmd(app))
	cmd.AddCommand(newChecklistsCmd(app))
	cmd.AddCommand(newItemsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := workspaceStore(app)
	if err != nil {
		return err
	}
	name := app.File
	if name == "" {
		// Reopen where the user left off, else the first file on disk.
		last, _ := s.LastPosition(context.Background())
		if last != "" {
			name = last
		} else {
			names, err := s.ListFiles()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return errors.New("no checklist files in the workspace; run `preflight files create <name>` first")
			}
			name = names[0]
		}
	}
	return tui.Run(s, name)
}

func workspaceStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	return store.Store{Dir: dir}, nil
}

// openDoc loads the named files from disk into a fresh document store. The
// first name becomes the "primary" file CLI subcommands operate on.
func openDoc(app *App, names ...string) (*doc.Store, store.Store, error) {
	s, err := workspaceStore(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	d := doc.New()
	for _, name := range names {
		f, err := s.LoadFile(name)
		if err != nil {
			return nil, s, err
		}
		d.Add(f)
	}
	return d, s, nil
}

func requireFile(app *App) (string, error) {
	if strings.TrimSpace(app.File) == "" {
		return "", errors.New("no file selected; pass --file <name> (see `preflight files list`)")
	}
	return strings.TrimSpace(app.File), nil
}

// saveDirty flushes every modified file back to disk.
func saveDirty(d *doc.Store, s store.Store) error {
	for _, f := range d.Files() {
		if !f.Dirty {
			continue
		}
		if err := s.SaveFile(f); err != nil {
			return err
		}
		d.MarkSaved(f.ID)
	}
	return nil
}

// groupOfChecklist returns the id of the group holding a checklist.
func groupOfChecklist(f model.File, checklistID string) (string, bool) {
	for _, g := range f.Groups {
		for _, c := range g.Checklists {
			if c.ID == checklistID {
				return g.ID, true
			}
		}
	}
	return "", false
}

// resolveChecklist accepts a checklist id or, as a convenience, an exact
// name when it is unambiguous within the file.
func resolveChecklist(f model.File, ref string) (string, error) {
	if _, ok := f.FindChecklist(ref); ok {
		return ref, nil
	}
	var matches []string
	for _, g := range f.Groups {
		for _, c := range g.Checklists {
			if c.Name == ref {
				matches = append(matches, c.ID)
			}
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no checklist %q in %s", ref, f.Name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("checklist name %q is ambiguous in %s; use an id", ref, f.Name)
	}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
