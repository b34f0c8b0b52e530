package layout

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Errors
var (
	ErrInvalidLayout = errors.New("invalid layout")
)

// Document is the top level layout document.
type Document struct {
	Version       uint32        `json:"version"`
	ConnectionTab ConnectionTab `json:"connection_tab"`
	ActionsTab    ActionsTab    `json:"actions_tab"`
	DataTab       DataTab       `json:"data_tab"`
	StateTab      StateTab      `json:"state_tab"`
}

// ConnectionTab lists the sections of the connection panel.
type ConnectionTab struct {
	Sections []ConnectionSection `json:"sections"`
}

// ConnectionSection is one panel on the connection tab.
type ConnectionSection struct {
	Kind  string  `json:"kind"`
	Title *string `json:"title,omitempty"`
}

// ActionsTab lists the operator command buttons.
type ActionsTab struct {
	Actions []Action `json:"actions"`
}

// Action is one command button with its styling.
type Action struct {
	Label  string `json:"label"`
	Cmd    string `json:"cmd"`
	Border string `json:"border"`
	Bg     string `json:"bg"`
	Fg     string `json:"fg"`
}

// DataTab lists the chart tabs.
type DataTab struct {
	Tabs []DataTabSpec `json:"tabs"`
}

// DataTabSpec is one chart tab binding channels to a display.
type DataTabSpec struct {
	ID            string          `json:"id"`
	Label         string          `json:"label"`
	Channels      []string        `json:"channels"`
	Chart         *DataTabChart   `json:"chart,omitempty"`
	BooleanLabels *BooleanLabels  `json:"boolean_labels,omitempty"`
	ChannelLabels []BooleanLabels `json:"channel_boolean_labels,omitempty"`
}

// DataTabChart toggles the chart for a data tab.
type DataTabChart struct {
	Enabled bool `json:"enabled"`
}

// StateTab lists the per-flight-state panels.
type StateTab struct {
	States []StatePanel `json:"states"`
}

// StatePanel binds a set of flight states to the sections shown during them.
type StatePanel struct {
	States   []string       `json:"states"`
	Sections []StateSection `json:"sections"`
}

// StateSection is one titled group of widgets.
type StateSection struct {
	Title   *string       `json:"title,omitempty"`
	Widgets []StateWidget `json:"widgets"`
}

// StateWidget is one widget in a state section. Fields are optional per kind.
type StateWidget struct {
	Kind          string          `json:"kind"`
	DataType      *string         `json:"data_type,omitempty"`
	Items         []SummaryItem   `json:"items,omitempty"`
	ChartTitle    *string         `json:"chart_title,omitempty"`
	Width         *float64        `json:"width,omitempty"`
	Height        *float64        `json:"height,omitempty"`
	Actions       []string        `json:"actions,omitempty"`
	Valves        []SummaryItem   `json:"valves,omitempty"`
	ValveColors   *ValveColorSet  `json:"valve_colors,omitempty"`
	BooleanLabels *BooleanLabels  `json:"boolean_labels,omitempty"`
	ValveLabels   []BooleanLabels `json:"valve_labels,omitempty"`
}

// SummaryItem labels one value index inside a packet payload.
type SummaryItem struct {
	Label string `json:"label"`
	Index int    `json:"index"`
}

// BooleanLabels names the two states of a boolean channel.
type BooleanLabels struct {
	TrueLabel    string  `json:"true_label"`
	FalseLabel   string  `json:"false_label"`
	UnknownLabel *string `json:"unknown_label,omitempty"`
}

// ValveColor styles one valve state.
type ValveColor struct {
	Bg     string `json:"bg"`
	Border string `json:"border"`
	Fg     string `json:"fg"`
}

// ValveColorSet styles the open, closed and unknown valve states.
type ValveColorSet struct {
	Open    *ValveColor `json:"open,omitempty"`
	Closed  *ValveColor `json:"closed,omitempty"`
	Unknown *ValveColor `json:"unknown,omitempty"`
}

// Load reads and validates the layout document at path.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout file %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural invariants frontends rely on.
func (d *Document) Validate() error {
	if d.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1", ErrInvalidLayout)
	}
	if len(d.ConnectionTab.Sections) == 0 {
		return fmt.Errorf("%w: connection_tab.sections is empty", ErrInvalidLayout)
	}
	if len(d.ActionsTab.Actions) == 0 {
		return fmt.Errorf("%w: actions_tab.actions is empty", ErrInvalidLayout)
	}
	if len(d.DataTab.Tabs) == 0 {
		return fmt.Errorf("%w: data_tab.tabs is empty", ErrInvalidLayout)
	}
	if len(d.StateTab.States) == 0 {
		return fmt.Errorf("%w: state_tab.states is empty", ErrInvalidLayout)
	}

	for i, tab := range d.DataTab.Tabs {
		if tab.ID == "" {
			return fmt.Errorf("%w: data_tab.tabs[%d] has no id", ErrInvalidLayout, i)
		}
		if len(tab.Channels) == 0 {
			return fmt.Errorf("%w: data_tab.tabs[%d] has no channels", ErrInvalidLayout, i)
		}
	}
	for i, a := range d.ActionsTab.Actions {
		if a.Cmd == "" {
			return fmt.Errorf("%w: actions_tab.actions[%d] has no cmd", ErrInvalidLayout, i)
		}
	}
	return nil
}

// Save writes the document atomically, via a temp file in the same directory.
func (d *Document) Save(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".layout-*.json")
	if err != nil {
		return fmt.Errorf("creating temp layout file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing layout: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing layout file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing layout file: %w", err)
	}
	return nil
}
