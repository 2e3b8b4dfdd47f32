package track

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildResponses(t *testing.T) {
	trackID := uuid.New()
	moduleA := uuid.New()
	moduleB := uuid.New()
	l1, l2, l3, l4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()

	tracks := []LearningTrack{{ID: trackID, Slug: "quantum", Name: "Computação Quântica", Color: "quantum"}}
	modulesByTrack := map[uuid.UUID][]TrackModule{
		trackID: {
			{ID: moduleA, TrackID: trackID, Slug: "q1", Title: "Fundamentos", Order: 1},
			{ID: moduleB, TrackID: trackID, Slug: "q2", Title: "Algoritmos", Order: 2},
		},
	}
	lessonsByModule := map[uuid.UUID][]TrackLesson{
		moduleA: {
			{ID: l1, ModuleID: moduleA, Slug: "q1l1", Title: "Qubits", Order: 1},
			{ID: l2, ModuleID: moduleA, Slug: "q1l2", Title: "Superposição", Order: 2},
		},
		moduleB: {
			{ID: l3, ModuleID: moduleB, Slug: "q2l1", Title: "Grover", Order: 1},
			{ID: l4, ModuleID: moduleB, Slug: "q2l2", Title: "Shor", Order: 2},
		},
	}

	t.Run("no progress", func(t *testing.T) {
		responses := BuildResponses(tracks, modulesByTrack, lessonsByModule, map[uuid.UUID]bool{})
		assert.Len(t, responses, 1)
		assert.Equal(t, 0.0, responses[0].Progress)
		assert.Equal(t, 0.0, responses[0].Modules[0].Progress)
	})

	t.Run("partial progress", func(t *testing.T) {
		completed := map[uuid.UUID]bool{l1: true, l2: true, l3: true}
		responses := BuildResponses(tracks, modulesByTrack, lessonsByModule, completed)

		resp := responses[0]
		assert.Equal(t, 75.0, resp.Progress)
		assert.Equal(t, 100.0, resp.Modules[0].Progress)
		assert.Equal(t, 50.0, resp.Modules[1].Progress)

		assert.True(t, resp.Modules[0].Lessons[0].Completed)
		assert.False(t, resp.Modules[1].Lessons[1].Completed)
	})

	t.Run("single completed lesson", func(t *testing.T) {
		completed := map[uuid.UUID]bool{l1: true}
		responses := BuildResponses(tracks, modulesByTrack, lessonsByModule, completed)

		resp := responses[0]
		assert.Equal(t, 25.0, resp.Progress)
		assert.Equal(t, 50.0, resp.Modules[0].Progress)
		assert.Equal(t, 0.0, resp.Modules[1].Progress)
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		// 1 of 3 lessons completed is 33.33, not a long fraction.
		m := uuid.New()
		la, lb, lc := uuid.New(), uuid.New(), uuid.New()
		tr := []LearningTrack{{ID: trackID, Slug: "s", Name: "S", Color: "gold"}}
		responses := BuildResponses(tr,
			map[uuid.UUID][]TrackModule{trackID: {{ID: m, TrackID: trackID, Slug: "m"}}},
			map[uuid.UUID][]TrackLesson{m: {{ID: la}, {ID: lb}, {ID: lc}}},
			map[uuid.UUID]bool{la: true},
		)
		assert.Equal(t, 33.33, responses[0].Progress)
	})

	t.Run("track without modules", func(t *testing.T) {
		responses := BuildResponses(tracks, map[uuid.UUID][]TrackModule{}, nil, nil)
		assert.Equal(t, 0.0, responses[0].Progress)
		assert.Empty(t, responses[0].Modules)
	})
}

func TestCompletedModuleSlugs(t *testing.T) {
	moduleA := uuid.New()
	moduleB := uuid.New()
	moduleEmpty := uuid.New()
	l1, l2, l3 := uuid.New(), uuid.New(), uuid.New()

	modules := []TrackModule{
		{ID: moduleA, Slug: "s1"},
		{ID: moduleB, Slug: "q1"},
		{ID: moduleEmpty, Slug: "draft"},
	}
	lessonsByModule := map[uuid.UUID][]TrackLesson{
		moduleA: {{ID: l1}, {ID: l2}},
		moduleB: {{ID: l3}},
	}

	t.Run("fully completed module qualifies", func(t *testing.T) {
		completed := map[uuid.UUID]bool{l1: true, l2: true}
		assert.Equal(t, []string{"s1"}, CompletedModuleSlugs(modules, lessonsByModule, completed))
	})

	t.Run("partially completed module does not", func(t *testing.T) {
		completed := map[uuid.UUID]bool{l1: true}
		assert.Empty(t, CompletedModuleSlugs(modules, lessonsByModule, completed))
	})

	t.Run("lessonless module never qualifies", func(t *testing.T) {
		completed := map[uuid.UUID]bool{l1: true, l2: true, l3: true}
		slugs := CompletedModuleSlugs(modules, lessonsByModule, completed)
		assert.ElementsMatch(t, []string{"s1", "q1"}, slugs)
		assert.NotContains(t, slugs, "draft")
	})
}
