package scenes

// Captions holds the subtitle line shown for each narration cue.
var Captions = map[string]string{
	"Scene06-IdentityLayer":   "First thing on waking up: who am I, and where?",
	"Scene07-BootstrapLayer":  "Swap a markdown file and the whole style changes",
	"Scene08-MemoryLayer":     "Memory means it never starts from zero",
	"Scene09-SkillsLayer":     "Know what skills exist, read the details only when needed",
	"Scene10-ContextAssembly": "Four layers, plus history, plus the new message",

	"Scene12-SendToLLM":      "Send the messages and the tool list to the LLM",
	"Scene13-CheckResponse":  "Text means done. A tool_call means work to do",
	"Scene14-ToolsExplained": "Every tool says what it does and how to call it",
	"Scene15-ExecuteTool":    "Run the tool, append the result to messages",
	"Scene16-LoopBack":       "Back to the top: the LLM looks at the result",
	"Scene17-AgentVsChatbot": "A chatbot answers once. An agent keeps going",
}
