package cli

import (
	"errors"
	"fmt"

	"preflight-cli/internal/doc"
	"preflight-cli/internal/model"
	"preflight-cli/internal/mutate"
	"preflight-cli/internal/store"

	"github.com/spf13/cobra"
)

func newItemsCmd(app *App) *cobra.Command {
	var checklist string
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Edit the items of one checklist",
	}
	cmd.PersistentFlags().StringVar(&checklist, "checklist", "", "Checklist id or name within the file")

	cmd.AddCommand(newItemsListCmd(app, &checklist))
	cmd.AddCommand(newItemsAddCmd(app, &checklist))
	cmd.AddCommand(newItemsSetCmd(app, &checklist))
	cmd.AddCommand(newItemsRemoveCmd(app, &checklist))
	cmd.AddCommand(newItemsDuplicateCmd(app, &checklist))
	cmd.AddCommand(newItemsIndentCmd(app, &checklist, 1))
	cmd.AddCommand(newItemsIndentCmd(app, &checklist, -1))
	cmd.AddCommand(newItemsMoveCmd(app, &checklist))
	return cmd
}

// openChecklist loads the selected file and points a fresh document store at
// the requested checklist.
func openChecklist(app *App, checklist string) (*doc.Store, store.Store, error) {
	fileName, err := requireFile(app)
	if err != nil {
		return nil, store.Store{}, err
	}
	if checklist == "" {
		return nil, store.Store{}, errors.New("--checklist is required")
	}
	d, s, err := openDoc(app, fileName)
	if err != nil {
		return nil, s, err
	}
	f := d.Files()[0]
	cklID, err := resolveChecklist(f, checklist)
	if err != nil {
		return nil, s, err
	}
	if !d.SetCurrent(f.ID, cklID) {
		return nil, s, fmt.Errorf("no checklist %q in %s", cklID, f.Name)
	}
	return d, s, nil
}

func finishItemsCmd(cmd *cobra.Command, app *App, d *doc.Store, s store.Store, res any) error {
	if err := saveDirty(d, s); err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, map[string]any{"data": res})
}

func resultData(resChanged bool, resID string) map[string]any {
	return map[string]any{"changed": resChanged, "id": resID}
}

func newItemsListCmd(app *App, checklist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the checklist's items in document order",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, _, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			ckl, _ := d.CurrentChecklist()
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"id":    ckl.ID,
					"name":  ckl.Name,
					"items": ckl.Items,
				},
			})
		},
	}
}

func newItemsAddCmd(app *App, checklist *string) *cobra.Command {
	var kind, challenge, response, afterID string
	var atStart bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an item (appends unless --after-id or --at-start)",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := model.ParseItemKind(kind)
			if !ok {
				return writeErr(cmd, fmt.Errorf("invalid kind: %q", kind))
			}
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			ckl, _ := d.CurrentChecklist()

			afterIdx := len(ckl.Items) - 1
			switch {
			case atStart:
				afterIdx = -1
			case afterID != "":
				i := ckl.IndexOf(afterID)
				if i < 0 {
					return writeErr(cmd, fmt.Errorf("no item %q in %s", afterID, ckl.Name))
				}
				afterIdx = i
			}

			res := d.InsertItem(k, afterIdx)
			if res.Changed && (challenge != "" || response != "") {
				d.SetItemText(res.ID, challenge, response)
			}
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
	cmd.Flags().StringVar(&kind, "kind", string(model.KindChallengeResponse), "Item kind (challenge_response|challenge_only|title|note|warning|caution)")
	cmd.Flags().StringVar(&challenge, "challenge", "", "Challenge text")
	cmd.Flags().StringVar(&response, "response", "", "Response text (challenge_response items)")
	cmd.Flags().StringVar(&afterID, "after-id", "", "Insert after this item id")
	cmd.Flags().BoolVar(&atStart, "at-start", false, "Insert at the start of the checklist")
	return cmd
}

func newItemsSetCmd(app *App, checklist *string) *cobra.Command {
	var challenge, response string
	cmd := &cobra.Command{
		Use:   "set <item-id>",
		Short: "Update an item's challenge/response text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			ckl, _ := d.CurrentChecklist()
			i := ckl.IndexOf(args[0])
			if i < 0 {
				return writeErr(cmd, fmt.Errorf("no item %q in %s", args[0], ckl.Name))
			}

			// Unset flags keep the current text.
			ch, rs := ckl.Items[i].Challenge, ckl.Items[i].Response
			if cmd.Flags().Changed("challenge") {
				ch = challenge
			}
			if cmd.Flags().Changed("response") {
				rs = response
			}

			res := d.SetItemText(args[0], ch, rs)
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
	cmd.Flags().StringVar(&challenge, "challenge", "", "Challenge text")
	cmd.Flags().StringVar(&response, "response", "", "Response text")
	return cmd
}

func newItemsRemoveCmd(app *App, checklist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Delete an item (descendants stay at their depths)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.RemoveItems(args[0])
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
}

func newItemsDuplicateCmd(app *App, checklist *string) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <item-id>",
		Short: "Clone an item in place (fresh id)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.DuplicateItems(args[0])
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
}

func newItemsIndentCmd(app *App, checklist *string, delta int) *cobra.Command {
	use, short := "indent <item-id>", "Indent an item one level"
	if delta < 0 {
		use, short = "outdent <item-id>", "Outdent an item one level"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			var res mutate.Result
			if delta < 0 {
				res = d.Outdent(args[0])
			} else {
				res = d.Indent(args[0])
			}
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
}

func newItemsMoveCmd(app *App, checklist *string) *cobra.Command {
	var to int
	cmd := &cobra.Command{
		Use:   "move <item-id>",
		Short: "Move an item to a new position in the sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to < 0 {
				return writeErr(cmd, errors.New("--to is required"))
			}
			d, s, err := openChecklist(app, *checklist)
			if err != nil {
				return writeErr(cmd, err)
			}
			res := d.MoveItems(args[0], to)
			return finishItemsCmd(cmd, app, d, s, resultData(res.Changed, res.ID))
		},
	}
	cmd.Flags().IntVar(&to, "to", -1, "Target position (index in the sequence without the moved item)")
	return cmd
}
