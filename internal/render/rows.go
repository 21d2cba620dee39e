package render

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"openconvert/internal/catalog"
	"openconvert/internal/queue"
)

var upper = cases.Upper(language.English)

// TargetOption is one selectable target format for a row.
type TargetOption struct {
	Value    string
	Selected bool
}

// Row is the display model for one queue item.
type Row struct {
	Position         int
	ID               string
	FileName         string
	SourceLabel      string
	Target           string
	TargetOptions    []TargetOption
	StatusLabel      string
	Message          string
	OutputFileName   string
	ControlsDisabled bool
	ShowDownload     bool
}

// View is the display model for the whole queue.
type View struct {
	Rows           []Row
	Banner         string
	Converting     bool
	ConvertEnabled bool
}

// Build computes the view for a snapshot against the active catalog.
func Build(snapshot queue.Snapshot, cat catalog.Catalog) View {
	view := View{
		Banner:     snapshot.Banner,
		Converting: snapshot.Converting,
		Rows:       make([]Row, 0, len(snapshot.Items)),
	}

	targetsSet := len(snapshot.Items) > 0
	for i, item := range snapshot.Items {
		if item.Target == "" {
			targetsSet = false
		}

		targets := cat.TargetsFor(item.Source)
		options := make([]TargetOption, 0, len(targets))
		for _, target := range targets {
			options = append(options, TargetOption{
				Value:    target,
				Selected: target == item.Target,
			})
		}

		view.Rows = append(view.Rows, Row{
			Position:         i + 1,
			ID:               item.ID,
			FileName:         item.FileName,
			SourceLabel:      upper.String(item.Source),
			Target:           item.Target,
			TargetOptions:    options,
			StatusLabel:      statusLabel(item.Status),
			Message:          item.ErrorMessage,
			OutputFileName:   item.OutputFileName,
			ControlsDisabled: snapshot.Converting || item.Status == queue.StatusProcessing,
			ShowDownload:     item.Status == queue.StatusDone && snapshot.HasDownload[item.ID],
		})
	}

	view.ConvertEnabled = targetsSet && !snapshot.Converting
	return view
}

func statusLabel(status queue.Status) string {
	switch status {
	case queue.StatusReady:
		return "Ready"
	case queue.StatusProcessing:
		return "Converting..."
	case queue.StatusDone:
		return "Done"
	case queue.StatusError:
		return "Failed"
	default:
		return upper.String(string(status))
	}
}
