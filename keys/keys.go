package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

type KeyName int

const (
	KeyUp KeyName = iota
	KeyDown
	KeyShiftUp
	KeyShiftDown
	KeySwitchLine
	KeyReset
	KeyCopy
	KeyLookup
	KeySize
	KeyDownload
	KeyHelp
	KeyQuit

	KeySubmit
	KeyCancel
)

// GlobalKeyStringsMap is a global, immutable map string to keybinding.
var GlobalKeyStringsMap = map[string]KeyName{
	"up":         KeyUp,
	"k":          KeyUp,
	"down":       KeyDown,
	"j":          KeyDown,
	"shift+up":   KeyShiftUp,
	"K":          KeyShiftUp,
	"shift+down": KeyShiftDown,
	"J":          KeyShiftDown,
	"tab":        KeySwitchLine,
	"r":          KeyReset,
	"c":          KeyCopy,
	"o":          KeyLookup,
	"s":          KeySize,
	"d":          KeyDownload,
	"?":          KeyHelp,
	"q":          KeyQuit,
}

// GlobalkeyBindings is a global, immutable map of KeyName to keybinding.
var GlobalkeyBindings = map[KeyName]key.Binding{
	KeyUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up a row"),
	),
	KeyDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down a row"),
	),
	KeyShiftUp: key.NewBinding(
		key.WithKeys("shift+up", "K"),
		key.WithHelp("⇧↑/K", "up 1px"),
	),
	KeyShiftDown: key.NewBinding(
		key.WithKeys("shift+down", "J"),
		key.WithHelp("⇧↓/J", "down 1px"),
	),
	KeySwitchLine: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch line"),
	),
	KeyReset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	KeyCopy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy mm"),
	),
	KeyLookup: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open code"),
	),
	KeySize: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "size"),
	),
	KeyDownload: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "download svg"),
	),
	KeyHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	KeyQuit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),

	// -- Special keybindings --

	KeySubmit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	KeyCancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}
