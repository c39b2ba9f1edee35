package scene

import (
	"io"

	"gopkg.in/yaml.v3"
)

// Frame is the visual description of one frame of a composition.
type Frame struct {
	Composition string `yaml:"composition"`
	Index       int    `yaml:"frame"`
	FPS         int    `yaml:"fps"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Root        *Node  `yaml:"root"`
}

// Encode writes frames as a YAML stream, one document per frame.
func Encode(w io.Writer, frames ...*Frame) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, f := range frames {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return enc.Close()
}
