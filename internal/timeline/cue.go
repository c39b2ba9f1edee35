package timeline

// Cue ties a narration segment to a frame window.
type Cue struct {
	Key    string `yaml:"key"`
	Window `yaml:",inline"`
}

// Cues is an ordered list of narration segments.
type Cues []Cue

// CueAt returns the first cue whose window contains frame.
func (c Cues) CueAt(frame int) (Cue, bool) {
	for _, cue := range c {
		if cue.Contains(frame) {
			return cue, true
		}
	}
	return Cue{}, false
}

// ContextAssemblyCues maps the merged context scene to its narration.
var ContextAssemblyCues = Cues{
	{"Scene06-IdentityLayer", Window{0, 540}},
	{"Scene07-BootstrapLayer", Window{540, 1200}},
	{"Scene08-MemoryLayer", Window{1200, 2000}},
	{"Scene09-SkillsLayer", Window{2000, 2600}},
	{"Scene10-ContextAssembly", Window{2600, 3360}},
}

// AgentLoopCues maps the loop breakdown scene to its narration.
var AgentLoopCues = Cues{
	{"Scene12-SendToLLM", Window{0, 540}},
	{"Scene13-CheckResponse", Window{540, 1080}},
	{"Scene14-ToolsExplained", Window{1080, 1680}},
	{"Scene15-ExecuteTool", Window{1680, 2280}},
	{"Scene16-LoopBack", Window{2280, 2820}},
	{"Scene17-AgentVsChatbot", Window{2820, 3600}},
}
