package spring

import (
	"errors"
	"fmt"
	"sort"
)

// Presets shared by scene entrances.
var (
	// Soft settles without visible overshoot.
	Soft = Config{Damping: 20, Stiffness: 170, Mass: 0.9}
	// Emphasis overshoots slightly for highlighted elements.
	Emphasis = Config{Damping: 16, Stiffness: 190, Mass: 0.85}
	// Snappy is used for scale-in pops.
	Snappy = Config{Damping: 12, Stiffness: 200, Mass: 1}
	// Gentle drives long layer entrances.
	Gentle = Config{Damping: 15, Stiffness: 120, Mass: 1}
)

func presets() map[string]Config {
	return map[string]Config{
		"soft":     Soft,
		"emphasis": Emphasis,
		"snappy":   Snappy,
		"gentle":   Gentle,
	}
}

// Preset resolves a preset by name.
func Preset(name string) (Config, bool) {
	c, ok := presets()[name]
	return c, ok
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, 4)
	for name := range presets() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidatePresets checks every named preset.
func ValidatePresets() error {
	var errs []error
	for _, name := range PresetNames() {
		c, _ := Preset(name)
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preset %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
