package editor

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type (
	// Preferences are the tunable constants of the edit session. Distances
	// are in pixels.
	Preferences struct {
		DragThreshold  float64
		EdgeWidth      float64
		AutoScroll     AutoScrollPreferences
		CurveTolerance float64
		CurveSamples   int
		LookBehind     float64
		FadeHandleSize float64
		NameHeight     float64
		NameCharWidth  float64
		// MinLength is the shortest length, in ticks, an object can be
		// resized to.
		MinLength float64
		// LoopPromotion turns a plain resize into a loop resize when the
		// selection contains looped regions.
		LoopPromotion bool
		YmlError      error `yaml:"-"`
	}

	AutoScrollPreferences struct {
		Border          float64
		HorizontalSpeed float64
		VerticalSpeed   float64
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func DefaultPreferences() Preferences {
	var preferences Preferences
	err := yaml.UnmarshalStrict(defaultPreferencesYaml, &preferences)
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

// ReadCustomConfigYml modifies the target argument, i.e. needs a pointer
func ReadCustomConfigYml(filename string, target interface{}) (exists bool, err error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return false, err
	}
	path := filepath.Join(configDir, "timeline", filename)
	bytes, err2 := os.ReadFile(path)
	if err2 != nil {
		return false, err2
	}
	err = yaml.UnmarshalStrict(bytes, target)
	return true, err
}

// MakePreferences returns the default preferences, overridden by the
// preferences.yml in the user config directory if there is one.
func MakePreferences() Preferences {
	preferences := DefaultPreferences()
	exists, err := ReadCustomConfigYml("preferences.yml", &preferences)
	if exists {
		preferences.YmlError = err
	}
	return preferences
}
