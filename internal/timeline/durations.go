package timeline

// FPS is the frame rate every duration in this package is expressed in.
const FPS = 30

// SceneDuration is the length of one top-level scene in frames.
type SceneDuration struct {
	ID     string `yaml:"id"`
	Frames int    `yaml:"frames"`
}

// Durations lists the episode scenes in playback order.
var Durations = []SceneDuration{
	{"Scene01-Intro", 540},
	{"Scene02-AgentLoopHighlight", 510},
	{"Scene03-Title", 600},
	{"Scene04-PipelineReview", 600},
	{"Scene05-ContextQuestion", 390},
	{"Scene06-ContextAssembly", 3360},
	{"Scene11-AgentLoopTitle", 300},
	{"Scene12-AgentLoopBreakdown", 3600},
	{"Scene18-ToolsWhere", 300},
	{"Scene19-OSLevelVsCloud", 2100},
	{"Scene21-ToolsShowcase", 600},
	{"Scene22-DeliveryNotChat", 300},
	{"Scene23-CaseIntro", 540},
	{"Scene24-ContextWithMemory", 900},
	{"Scene26-SevenRounds", 2610},
	{"Scene33-CaseReview", 450},
	{"Scene34-ArchitectureSummary", 600},
	{"Scene35-OSLevelValue", 300},
	{"Scene36-NextEpisode", 300},
}

// DurationOf returns the frame count of scene id.
func DurationOf(id string) (int, bool) {
	for _, d := range Durations {
		if d.ID == id {
			return d.Frames, true
		}
	}
	return 0, false
}

// Seconds converts seconds to frames at FPS.
func Seconds(s float64) int {
	return int(s * FPS)
}
