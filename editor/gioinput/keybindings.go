package gioinput

import (
	_ "embed"
	"fmt"

	"gioui.org/io/key"
	"github.com/vsariola/timeline/editor"
	"gopkg.in/yaml.v2"
)

type KeyBinding struct {
	Key                                        string
	Shortcut, Ctrl, Command, Shift, Alt, Super bool
	Action                                     string
}

var (
	keyBindingMap = map[key.Event]string{}
	keyFilters    []key.Filter
)

// actionKeys translates the bound actions to the keys of the edit session.
var actionKeys = map[string]editor.KeyEvent{
	"Cancel":        {Key: editor.KeyEscape},
	"NudgeLeft":     {Key: editor.KeyLeft},
	"NudgeRight":    {Key: editor.KeyRight},
	"NudgeLeftBar":  {Key: editor.KeyLeft, Modifiers: editor.ModCtrl},
	"NudgeRightBar": {Key: editor.KeyRight, Modifiers: editor.ModCtrl},
	"MoveUp":        {Key: editor.KeyUp},
	"MoveDown":      {Key: editor.KeyDown},
	"Delete":        {Key: editor.KeyDelete},
	"SelectAll":     {Key: editor.KeyA, Modifiers: editor.ModCtrl},
	"Copy":          {Key: editor.KeyC, Modifiers: editor.ModCtrl},
}

//go:embed keybindings.yml
var defaultKeyBindingsYaml []byte

func loadDefaultKeyBindings() []KeyBinding {
	var keyBindings []KeyBinding
	err := yaml.Unmarshal(defaultKeyBindingsYaml, &keyBindings)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal keybindings: %w", err))
	}
	return keyBindings
}

func loadCustomKeyBindings() []KeyBinding {
	var keyBindings []KeyBinding
	_, err := editor.ReadCustomConfigYml("keybindings.yml", &keyBindings)
	if err != nil {
		return nil
	}
	return keyBindings
}

func init() {
	keyBindings := loadDefaultKeyBindings()
	keyBindings = append(keyBindings, loadCustomKeyBindings()...)
	for _, kb := range keyBindings {
		var mods key.Modifiers
		if kb.Shortcut {
			mods |= key.ModShortcut
		}
		if kb.Ctrl {
			mods |= key.ModCtrl
		}
		if kb.Command {
			mods |= key.ModCommand
		}
		if kb.Shift {
			mods |= key.ModShift
		}
		if kb.Alt {
			mods |= key.ModAlt
		}
		if kb.Super {
			mods |= key.ModSuper
		}
		keyEvent := key.Event{Name: key.Name(kb.Key), Modifiers: mods, State: key.Press}
		if kb.Action == "" { // unbind
			delete(keyBindingMap, keyEvent)
			continue
		}
		if _, ok := keyBindingMap[keyEvent]; !ok {
			keyFilters = append(keyFilters, key.Filter{Name: keyEvent.Name, Required: mods})
		}
		keyBindingMap[keyEvent] = kb.Action
	}
}
