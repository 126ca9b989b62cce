package cli

import (
	"github.com/spf13/cobra"

	"fieldnotes/internal/nav"
	"fieldnotes/internal/store"
)

// notFoundMarker stands in for a selection that no longer resolves.
type notFoundMarker struct {
	NotFound bool   `json:"notFound"`
	Kind     string `json:"kind"`
	ID       string `json:"id"`
}

type navOutput struct {
	Nav  nav.State `json:"nav"`
	Item any       `json:"item,omitempty"`
	Page any       `json:"page,omitempty"`
}

func newNavCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Navigation / selection commands",
	}
	cmd.AddCommand(newNavGoCmd(app))
	cmd.AddCommand(newNavCurrentCmd(app))
	return cmd
}

func newNavGoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "go <view> [id]",
		Short: "Switch view (and selected item)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := nav.ParseView(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			id := ""
			if len(args) == 2 {
				id = args[1]
			}
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := w.Navigate(cmd.Context(), view, id); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": resolveNav(w.Snapshot())})
		},
	}
	return cmd
}

func newNavCurrentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the current view and resolve the selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": resolveNav(w.Snapshot())})
		},
	}
	return cmd
}

// resolveNav looks up the selected item for views about a single entity. Navigation
// never rejects an id, so a dangling one is reported with a marker instead of an error.
func resolveNav(db *store.DB) navOutput {
	out := navOutput{Nav: db.Nav}
	id := db.Nav.ItemID
	switch db.Nav.View {
	case nav.ViewProject:
		if p, ok := db.FindProject(id); ok {
			out.Item = p
		} else {
			out.Item = notFoundMarker{NotFound: true, Kind: "project", ID: id}
		}
	case nav.ViewDocument:
		if d, ok := db.FindDocument(id); ok {
			out.Item = d
		} else {
			out.Item = notFoundMarker{NotFound: true, Kind: "document", ID: id}
		}
	}
	if db.Nav.View == nav.ViewNote || db.Nav.PageID != "" {
		if p, ok := db.CurrentPage(); ok {
			out.Page = p
		} else {
			out.Page = notFoundMarker{NotFound: true, Kind: "page", ID: db.Nav.PageID}
		}
	}
	return out
}
