package scenes

import (
	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/timeline"
)

const buildMessagesCode = `// assemble the system prompt from four layers
system_prompt = ""
system_prompt += identity()          // identity
system_prompt += read("AGENTS.md")   // behaviour rules
system_prompt += read("SOUL.md")     // persona
system_prompt += read("USER.md")     // user preferences
system_prompt += read("MEMORY.md")   // long-term memory
system_prompt += skills_summary()    // skill digest

messages = [
  {"role": "system", "content": system_prompt},
  ...session.history[-50:],
  {"role": "user", "content": current_msg}
]`

var pipelineItems = []Item{
	{"Receive", "Telegram / Feishu", Info},
	{"Preprocess", "parse the intent", PrimaryLight},
	{"Agent Loop", "the core loop", Accent},
	{"Postprocess", "format the output", PrimaryLight},
	{"Reply", "back to the user", Info},
}

var sevenRounds = []Item{
	{"Round 1  read_file", "learn the method", Primary},
	{"Round 2  web_search", "search, shaped by memory", Accent},
	{"Round 3  web_fetch", "403: blocked, think again", Error},
	{"Round 4  web_fetch", "retry with another source", Success},
	{"Round 5  read_file", "local notes", Primary},
	{"Round 6  exec", "generate the slides", Warning},
	{"Round 7  message", "deliver the result", Success},
}

// catalog lists every scene in playback order.
var catalog = []entry{
	{ID: "Scene01-Intro", Content: &TitleCard{
		Avatar:    "X",
		Title:     "Rebuilding Clawdbot with",
		Highlight: "1% of the code",
		Subtitle:  "Episode 2 of 3",
		Footer:    "How an agent actually works",
		FooterAt:  38,
		PushIn:    1.03,
	}},
	{ID: "Scene02-AgentLoopHighlight", Content: &CardList{
		Heading:  "Where we are in the pipeline",
		Columns:  5,
		Items:    pipelineItems,
		Pinned:   3,
		Footer:   "Today: everything inside the Agent Loop",
		FooterAt: 120,
	}},
	{ID: "Scene03-Title", Content: &TitleCard{
		Title:   "think -> act -> look -> think again",
		WordsAt: 40,
		Words: []Word{
			{"local files", Primary},
			{"operating system", Accent},
			{"long-term memory", Warning},
			{"learns", Success},
		},
		Strike:   "ChatBot",
		Footer:   "an OS-level Agent",
		FooterAt: 160,
	}},
	{ID: "Scene04-PipelineReview", Content: &CardList{
		Part:      "Part 1A",
		Section:   "Pipeline review",
		Heading:   "Messages go in, one loop does the work",
		Columns:   5,
		Items:     pipelineItems,
		Focus:     true,
		FocusFrom: 120,
		FocusTail: 60,
		Footer:    "Open the loop, and context comes first",
		FooterAt:  480,
	}},
	{ID: "Scene05-ContextQuestion", Content: &CardList{
		Heading: "What does the agent see every time?",
		Columns: 2,
		Items: []Item{
			{"workspace/", "AGENTS.md  SOUL.md  USER.md  MEMORY.md  skills/", Primary},
			{"System Prompt", "identity / bootstrap / memory / skills", Accent},
		},
		Stagger:  composer.Stagger{Base: 20, Step: 40, Duration: enterSlow, Easing: motion.Standard},
		Footer:   "files on disk -> what the model gets to see",
		FooterAt: 150,
	}},
	{ID: "Scene06-ContextAssembly", Timeline: "context-assembly", Content: &LayerStack{
		Part:    "Part 1A",
		Section: "Context Assembly",
		Title:   "System Prompt",
		Layers: []Layer{
			{
				Phase:   timeline.Identity,
				Label:   "Identity",
				Tone:    Primary,
				Details: []string{"who am I", "current time", "macOS / Linux", "workspace path", "tool list"},
				Digest:  "-> first thing on waking up: where am I?",
			},
			{
				Phase:   timeline.Bootstrap,
				Label:   "Bootstrap",
				Tone:    Accent,
				Files:   []string{"AGENTS.md", "SOUL.md", "USER.md"},
				Details: []string{"behaviour rules", "persona", "user preferences"},
				Digest:  "-> swap a file, the style changes",
			},
			{
				Phase:   timeline.Memory,
				Label:   "Memory",
				Tone:    Warning,
				Details: []string{"MEMORY.md", "user preferences", "past decisions"},
				Example: `"weekly report: summary only"`,
				Digest:  "-> never start from zero",
			},
			{
				Phase:   timeline.Skills,
				Label:   "Skills",
				Tone:    Success,
				Details: []string{"deep-research", "ppt-maker", "github-helper", "web-search"},
				Digest:  "-> know what exists, look it up when needed",
			},
		},
		Appendix: []Appendix{
			{"conversation history", "session.history[-50:]", Info},
			{"current message", "current_msg", PrimaryLight},
		},
		MergePhase: timeline.Merge,
		CodePhase:  timeline.Code,
		CodeTitle:  "build_messages()",
		Code:       buildMessagesCode,
		Steps:      []string{"Identity", "Bootstrap", "Memory", "Skills", "Merge", "Code"},
		Cues:       timeline.ContextAssemblyCues,
	}},
	{ID: "Scene11-AgentLoopTitle", Timeline: "loop-preview", Content: &LoopPreview{
		Title:        "Agent Loop",
		Highlight:    "iteration",
		Subtitle:     "the beating",
		SubHighlight: "heart of an agent",
	}},
	{ID: "Scene12-AgentLoopBreakdown", Timeline: "agent-loop-breakdown", Content: &LoopBreakdown{
		Part:        "Part 1B",
		Section:     "Agent Loop",
		Steps:       []string{"Send LLM", "Check reply", "Tools", "Execute", "Loop back", "Compare"},
		Cues:        timeline.AgentLoopCues,
		Overlap:     24,
		EnterFrames: 18,
		TailFade:    24,
	}},
	{ID: "Scene18-ToolsWhere", Content: &TitleCard{
		Title:     "Where do these tools",
		Highlight: "run?",
		PushIn:    1.05,
	}},
	{ID: "Scene19-OSLevelVsCloud", Content: &CardList{
		Part:    "Part 2",
		Section: "Where tools run",
		Heading: "Cloud sandbox vs OS-level agent",
		Columns: 2,
		Items: []Item{
			{"Cloud sandbox", "isolated, clean, forgets everything", Info},
			{"OS-level agent", "your files, your tools, your machine", Accent},
			{"Risk: deleted files", "rm -rf in the wrong folder", Error},
			{"Risk: dangerous commands", "one bad exec touches the real system", Error},
			{"Production", "run it in a sandbox", Success},
			{"Development", "run it OS-level, with care", Warning},
		},
		Stagger:   composer.Stagger{Base: 30, Step: 45, Duration: enterSlow, Easing: motion.Standard},
		Focus:     true,
		FocusFrom: 300,
		FocusTail: 150,
		Footer:    "Power and risk come from the same place",
		FooterAt:  1800,
	}},
	{ID: "Scene21-ToolsShowcase", Content: &CardList{
		Heading: "Nine tools, five kinds",
		Columns: 3,
		Items: []Item{
			{"read_file", "files", Primary},
			{"write_file", "files", Primary},
			{"edit_file", "files", Primary},
			{"list_dir", "files", Primary},
			{"exec", "shell", Warning},
			{"web_search", "web", Accent},
			{"web_fetch", "web", Accent},
			{"message", "messaging", Info},
			{"delegate", "subtasks", Success},
		},
		Stagger:  composer.Stagger{Base: 30, Step: 40, Duration: enterNormal, Easing: motion.Standard},
		Footer:   "Enough to deliver real work",
		FooterAt: 420,
	}},
	{ID: "Scene22-DeliveryNotChat", Content: &TitleCard{
		Title:     "Not here to chat,",
		Highlight: "here to deliver",
		PushIn:    1.04,
	}},
	{ID: "Scene23-CaseIntro", Content: &CardList{
		Part:    "Part 3",
		Section: "A real case",
		Heading: "One message on Telegram",
		Columns: 1,
		Items: []Item{
			{"You", "research this week's agent frameworks and make me slides", Info},
			{"Agent", "on it", Accent},
		},
		Stagger:  composer.Stagger{Base: 40, Step: 90, Duration: enterSlow, Easing: motion.Standard},
		Footer:   "No follow-up questions. Just the result.",
		FooterAt: 300,
	}},
	{ID: "Scene24-ContextWithMemory", Content: &CardList{
		Part:    "Part 3",
		Section: "Context with memory",
		Heading: "The same four layers, memory in front",
		Columns: 1,
		Items: []Item{
			{"Identity", "who, where, which tools", Primary},
			{"Bootstrap", "AGENTS.md  SOUL.md  USER.md", Accent},
			{"Memory", "\"weekly report: summary only\"", Warning},
			{"Skills", "ppt-maker  web-search", Success},
		},
		Pinned:   3,
		Footer:   "With memory: better search terms, fewer questions",
		FooterAt: 420,
	}},
	{ID: "Scene26-SevenRounds", Content: &CardList{
		Part:      "Part 3",
		Section:   "Seven rounds",
		Columns:   1,
		Items:     sevenRounds,
		Stagger:   composer.Stagger{Base: 20, Step: 8, Duration: enterFast, Easing: motion.Standard},
		Focus:     true,
		FocusFrom: 120,
		FocusTail: 150,
		Footer:    "Seven turns of the same loop",
		FooterAt:  2460,
	}},
	{ID: "Scene33-CaseReview", Content: &CardList{
		Heading: "The whole case, one loop",
		Columns: 1,
		Items:   sevenRounds,
		Stagger: composer.Stagger{Base: 20, Step: staggerMd, Duration: enterFast, Easing: motion.Standard},
		Pinned:  3,
	}},
	{ID: "Scene34-ArchitectureSummary", Content: &CardList{
		Heading: "The architecture in four parts",
		Columns: 4,
		Items: []Item{
			{"Context Builder", "prompt + history + message", Primary},
			{"Planner", "the LLM picks the next step", Accent},
			{"Executor", "calls tools, gets results", Warning},
			{"Memory Writer", "updates long-term memory", Success},
		},
		Stagger:   composer.Stagger{Base: 30, Step: 30, Duration: enterSlow, Easing: motion.Standard},
		Focus:     true,
		FocusFrom: 180,
		FocusTail: 60,
	}},
	{ID: "Scene35-OSLevelValue", Content: &CardList{
		Heading: "Why OS-level",
		Columns: 3,
		Items: []Item{
			{"Reads your files", "", Primary},
			{"Uses your tools", "", Accent},
			{"Remembers your preferences", "", Warning},
		},
		Stagger: composer.Stagger{Base: 20, Step: 30, Duration: enterSlow, Easing: motion.Standard},
	}},
	{ID: "Scene36-NextEpisode", Content: &EndCard{
		Heading: "Next episode",
		Topics: []Topic{
			{"Skill", "declarative skills", "how an agent learns new abilities", Primary},
			{"Memory", "the memory lifecycle", "when to remember, when to forget", Warning},
		},
		Link:    "loopreel://episodes/3",
		Closing: "See you next time",
	}},
}
