package ui

import (
	"strings"

	"pirani-measure/keys"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var keyStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#655F5F",
	Dark:  "#7F7A7A",
})

var descStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#7A7474",
	Dark:  "#9C9494",
})

var sepStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
	Light: "#DDDADA",
	Dark:  "#3C3C3C",
})

var actionGroupStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

var disabledStyle = lipgloss.NewStyle().Foreground(TextMuted).Faint(true)

var separator = " • "
var verticalSeparator = " │ "

var menuStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("205"))

// MenuState represents different states the menu can be in
type MenuState int

const (
	StateDefault MenuState = iota
	StateDragging
	StateInput
	StateSelect
)

type menuGroup struct {
	start, end int
}

type Menu struct {
	options       []keys.KeyName
	groups        []menuGroup
	actionGroup   int
	height, width int
	state         MenuState
	hasRecord     bool
	// copyDisabled greys out the copy option when there is no clipboard.
	copyDisabled bool

	// keyDown is the key which is pressed. The default is -1.
	keyDown keys.KeyName
}

var inputMenuOptions = []keys.KeyName{keys.KeySubmit, keys.KeyCancel}
var selectMenuOptions = []keys.KeyName{keys.KeyUp, keys.KeyDown, keys.KeySubmit, keys.KeyCancel}

func NewMenu() *Menu {
	m := &Menu{
		state:   StateDefault,
		keyDown: -1,
	}
	m.updateOptions()
	return m
}

func (m *Menu) Keydown(name keys.KeyName) {
	m.keyDown = name
}

func (m *Menu) ClearKeydown() {
	m.keyDown = -1
}

// SetState updates the menu state and options accordingly
func (m *Menu) SetState(state MenuState) {
	m.state = state
	m.updateOptions()
}

func (m *Menu) State() MenuState {
	return m.state
}

// SetHasRecord toggles options that need a fetched product.
func (m *Menu) SetHasRecord(hasRecord bool) {
	m.hasRecord = hasRecord
	m.updateOptions()
}

// SetCopyDisabled greys out the copy option.
func (m *Menu) SetCopyDisabled(disabled bool) {
	m.copyDisabled = disabled
}

// updateOptions updates the menu options and groups based on current state
func (m *Menu) updateOptions() {
	switch m.state {
	case StateInput:
		m.setGroups(-1, inputMenuOptions)
	case StateSelect:
		m.setGroups(-1, selectMenuOptions)
	case StateDragging:
		m.setGroups(-1, []keys.KeyName{keys.KeyCopy, keys.KeyQuit})
	default:
		nudge := []keys.KeyName{keys.KeySwitchLine, keys.KeyUp, keys.KeyDown, keys.KeyShiftUp, keys.KeyShiftDown, keys.KeyReset}
		actions := []keys.KeyName{keys.KeyCopy, keys.KeyLookup, keys.KeySize}
		if m.hasRecord {
			actions = append(actions, keys.KeyDownload)
		}
		system := []keys.KeyName{keys.KeyHelp, keys.KeyQuit}
		m.setGroups(1, nudge, actions, system)
	}
}

func (m *Menu) setGroups(actionGroup int, groups ...[]keys.KeyName) {
	m.options = nil
	m.groups = nil
	m.actionGroup = actionGroup
	for _, g := range groups {
		start := len(m.options)
		m.options = append(m.options, g...)
		m.groups = append(m.groups, menuGroup{start: start, end: len(m.options)})
	}
}

// Options returns the keys currently shown.
func (m *Menu) Options() []keys.KeyName {
	return m.options
}

// SetSize sets the width of the window. The menu will be centered horizontally within this width.
func (m *Menu) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Menu) String() string {
	var s strings.Builder

	for gi, group := range m.groups {
		for i := group.start; i < group.end; i++ {
			k := m.options[i]
			binding := keys.GlobalkeyBindings[k]

			var (
				localActionStyle = actionGroupStyle
				localKeyStyle    = keyStyle
				localDescStyle   = descStyle
			)
			if m.keyDown == k {
				localActionStyle = localActionStyle.Underline(true)
				localKeyStyle = localKeyStyle.Underline(true)
				localDescStyle = localDescStyle.Underline(true)
			}

			if k == keys.KeyCopy && m.copyDisabled {
				s.WriteString(disabledStyle.Render(binding.Help().Key + " " + binding.Help().Desc + " (no clipboard)"))
			} else if gi == m.actionGroup {
				s.WriteString(localActionStyle.Render(binding.Help().Key))
				s.WriteString(" ")
				s.WriteString(localActionStyle.Render(binding.Help().Desc))
			} else {
				s.WriteString(localKeyStyle.Render(binding.Help().Key))
				s.WriteString(" ")
				s.WriteString(localDescStyle.Render(binding.Help().Desc))
			}

			if i == group.end-1 {
				if gi != len(m.groups)-1 {
					s.WriteString(sepStyle.Render(verticalSeparator))
				}
			} else {
				s.WriteString(sepStyle.Render(separator))
			}
		}
	}

	centeredMenuText := menuStyle.Render(s.String())
	if m.width > 0 && lipgloss.Width(centeredMenuText) > m.width {
		centeredMenuText = truncate.StringWithTail(centeredMenuText, uint(m.width), "…")
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, centeredMenuText)
}
