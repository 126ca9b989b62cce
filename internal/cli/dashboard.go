package cli

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fieldnotes/internal/derive"
	"fieldnotes/internal/logger"
	"fieldnotes/internal/model"
)

type dashboardOutput struct {
	derive.DashboardView
	Activity []model.Activity `json:"activity"`
}

func newDashboardCmd(app *App) *cobra.Command {
	var activity int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show counts, active projects, deadlines and recent pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, s, err := openWorkspace(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			out := dashboardOutput{
				DashboardView: derive.Dashboard(w.Snapshot(), time.Now().UTC()),
				Activity:      []model.Activity{},
			}
			if activity > 0 {
				entries, err := s.ReadActivity(cmd.Context(), activity)
				if err != nil {
					// The activity log is informational; the dashboard still renders.
					logger.Get().Warn("read activity failed", zap.Error(err))
				} else {
					out.Activity = entries
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().IntVar(&activity, "activity", 10, "Number of recent activity entries to include (0 to skip)")
	return cmd
}
