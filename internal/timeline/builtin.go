package timeline

// Phase ids of the context assembly scene.
const (
	Identity  = "identity"
	Bootstrap = "bootstrap"
	Memory    = "memory"
	Skills    = "skills"
	Merge     = "merge"
	Code      = "code"
)

// Phase ids of the agent loop breakdown scene.
const (
	SendToLLM      = "sendToLLM"
	CheckResponse  = "checkResponse"
	ToolsExplained = "toolsExplained"
	ExecuteTool    = "executeTool"
	LoopBack       = "loopBack"
	Comparison     = "comparison"
)

// ContextAssembly stacks the four prompt layers, merges them and reveals the
// assembly code.
var ContextAssembly = MustNew("context-assembly",
	Phase{Identity, Window{0, 540}},
	Phase{Bootstrap, Window{540, 1200}},
	Phase{Memory, Window{1200, 2000}},
	Phase{Skills, Window{2000, 2600}},
	Phase{Merge, Window{2600, 2900}},
	Phase{Code, Window{2900, 3360}},
)

// AgentLoopBreakdown walks through one turn of the loop in six phases.
var AgentLoopBreakdown = MustNew("agent-loop-breakdown",
	Phase{SendToLLM, Window{0, 540}},
	Phase{CheckResponse, Window{540, 1080}},
	Phase{ToolsExplained, Window{1080, 1680}},
	Phase{ExecuteTool, Window{1680, 2280}},
	Phase{LoopBack, Window{2280, 2820}},
	Phase{Comparison, Window{2820, 3600}},
)

// LoopPreview is the abbreviated loop shown on the section title. It shares
// phase ids with AgentLoopBreakdown but owns its windows.
var LoopPreview = MustNew("loop-preview",
	Phase{SendToLLM, Window{0, 75}},
	Phase{CheckResponse, Window{75, 150}},
	Phase{ExecuteTool, Window{150, 225}},
	Phase{LoopBack, Window{225, 300}},
)

// Builtin returns the named built-in timeline.
func Builtin(name string) (*Timeline, bool) {
	for _, tl := range builtins() {
		if tl.Name() == name {
			return tl, true
		}
	}
	return nil, false
}

func builtins() []*Timeline {
	return []*Timeline{ContextAssembly, AgentLoopBreakdown, LoopPreview}
}
