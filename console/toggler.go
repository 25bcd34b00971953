package console

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/reglet-dev/drawhost"
	"github.com/reglet-dev/drawhost/capability"
)

var _ capability.Toggler = (*TerminalToggler)(nil)

// TerminalToggler asks the operator which capabilities run custom behavior.
type TerminalToggler struct{}

// NewTerminalToggler creates a new TerminalToggler.
func NewTerminalToggler() *TerminalToggler {
	return &TerminalToggler{}
}

// IsInteractive checks if we're running in an interactive terminal.
func (t *TerminalToggler) IsInteractive() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// ChooseEnabled shows every capability pre-selected by its current state
// and returns the names left selected.
func (t *TerminalToggler) ChooseEnabled(states []capability.State) ([]capability.Name, error) {
	options := make([]huh.Option[capability.Name], 0, len(states))
	for _, s := range states {
		options = append(options, huh.NewOption(label(s.Name), s.Name).Selected(s.Enabled))
	}

	var selected []capability.Name
	err := huh.NewMultiSelect[capability.Name]().
		Title("Host Capabilities").
		Description("Selected capabilities run custom behavior; the rest use the engine default.").
		Options(options...).
		Height(len(options) + 2).
		Value(&selected).
		Run()
	if err != nil {
		return nil, err
	}
	return selected, nil
}

func label(name capability.Name) string {
	shape, _ := drawhost.Classify(name)
	return fmt.Sprintf("%-36s %s", name, shape)
}
