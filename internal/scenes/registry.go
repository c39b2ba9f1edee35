package scenes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
	"github.com/ivlev/loopreel/internal/timeline"
)

// ErrUnknownComposition is returned for ids that are neither a scene nor an
// episode.
var ErrUnknownComposition = errors.New("unknown composition")

// framed is a scene drawn from the frame number alone.
type framed interface {
	Render(frame, fps, duration int) *scene.Node
}

// timed is a scene driven by a named timeline.
type timed interface {
	compose(id string, tl *timeline.Timeline, duration int) (*composer.Composition, error)
}

func (s *LayerStack) compose(id string, tl *timeline.Timeline, duration int) (*composer.Composition, error) {
	if err := composer.CheckDuration(id, duration, tl); err != nil {
		return nil, err
	}
	b, err := s.bind(tl)
	if err != nil {
		return nil, err
	}
	return composer.NewComposition(id, timeline.FPS, Width, Height, duration, b.Render)
}

// entry pairs a scene id with its content. Timeline names a built-in
// timeline for timed content.
type entry struct {
	ID       string
	Timeline string
	Content  any
}

// Episode is a series of scenes joined by cross-fades.
type Episode struct {
	ID         string
	Scenes     []string
	Transition int // frames
}

// Registry resolves composition ids to compositions. Timelines can be
// overridden, for instance from a YAML file, to retime composite scenes.
type Registry struct {
	overrides map[string]*timeline.Timeline
	episodes  []Episode
}

// NewRegistry returns a registry over the built-in scenes and episodes.
func NewRegistry(overrides map[string]*timeline.Timeline) *Registry {
	ids := sceneIDs()
	return &Registry{
		overrides: overrides,
		episodes: []Episode{
			{ID: "EP2", Scenes: ids, Transition: 15},
			{ID: "EP2-Part1", Scenes: ids[:8], Transition: 15},
		},
	}
}

// Scenes returns the scene ids in playback order.
func (r *Registry) Scenes() []string { return sceneIDs() }

func sceneIDs() []string {
	ids := make([]string, 0, len(catalog))
	for _, e := range catalog {
		ids = append(ids, e.ID)
	}
	return ids
}

// Episodes returns the episode definitions.
func (r *Registry) Episodes() []Episode {
	out := make([]Episode, len(r.episodes))
	copy(out, r.episodes)
	return out
}

// Episode looks an episode up by id.
func (r *Registry) Episode(id string) (Episode, bool) {
	for _, ep := range r.episodes {
		if ep.ID == id {
			return ep, true
		}
	}
	return Episode{}, false
}

// IDs lists every renderable id, episodes first.
func (r *Registry) IDs() []string {
	var ids []string
	for _, ep := range r.episodes {
		ids = append(ids, ep.ID)
	}
	scenes := r.Scenes()
	sort.Strings(scenes)
	return append(ids, scenes...)
}

// Timeline returns the override for name or the built-in timeline.
func (r *Registry) Timeline(name string) (*timeline.Timeline, bool) {
	if tl, ok := r.overrides[name]; ok && tl != nil {
		return tl, true
	}
	return timeline.Builtin(name)
}

func lookup(id string) (entry, bool) {
	for _, e := range catalog {
		if e.ID == id {
			return e, true
		}
	}
	return entry{}, false
}

// Composition builds the scene id.
func (r *Registry) Composition(id string) (*composer.Composition, error) {
	e, ok := lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComposition, id)
	}
	duration, ok := timeline.DurationOf(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q has no duration", ErrUnknownComposition, id)
	}

	switch c := e.Content.(type) {
	case timed:
		tl, ok := r.Timeline(e.Timeline)
		if !ok {
			return nil, fmt.Errorf("%s: %w: no timeline %q", id, timeline.ErrInvalidTimeline, e.Timeline)
		}
		comp, err := c.compose(id, tl, duration)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		return comp, nil
	case framed:
		return composer.NewComposition(id, timeline.FPS, Width, Height, duration, func(frame, fps int) *scene.Node {
			return c.Render(frame, fps, duration)
		})
	default:
		return nil, fmt.Errorf("%s: unsupported content %T", id, e.Content)
	}
}

// Resolve expands id into the scenes to render and the transition between
// them. A scene id resolves to itself with no transition.
func (r *Registry) Resolve(id string) ([]string, int, error) {
	if ep, ok := r.Episode(id); ok {
		return ep.Scenes, ep.Transition, nil
	}
	if _, ok := lookup(id); ok {
		return []string{id}, 0, nil
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrUnknownComposition, id)
}

// Validate checks the spring presets, builds every scene and checks every
// episode series so that configuration errors surface before any frame is
// rendered.
func (r *Registry) Validate() error {
	var errs []error
	if err := spring.ValidatePresets(); err != nil {
		errs = append(errs, err)
	}
	for _, e := range catalog {
		if _, err := r.Composition(e.ID); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ep := range r.episodes {
		durations := make([]int, 0, len(ep.Scenes))
		for _, id := range ep.Scenes {
			d, _ := timeline.DurationOf(id)
			durations = append(durations, d)
		}
		if err := composer.ValidateSeries(durations, ep.Transition); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ep.ID, err))
		}
	}
	return errors.Join(errs...)
}

// SeriesDuration returns the length of id in frames after cross-fades.
func (r *Registry) SeriesDuration(id string) (int, error) {
	ids, transition, err := r.Resolve(id)
	if err != nil {
		return 0, err
	}
	durations := make([]int, len(ids))
	for i, s := range ids {
		durations[i], _ = timeline.DurationOf(s)
	}
	return composer.SeriesDuration(durations, transition), nil
}
