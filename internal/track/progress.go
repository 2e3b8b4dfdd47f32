package track

import (
	"math"

	"github.com/google/uuid"
)

// BuildResponses assembles the catalog tree with per-module and per-track
// completion percentages. Module and lesson slices are expected in their
// final (order, id) ordering; percentages are always recomputed from the
// completed set, never cached.
func BuildResponses(
	tracks []LearningTrack,
	modulesByTrack map[uuid.UUID][]TrackModule,
	lessonsByModule map[uuid.UUID][]TrackLesson,
	completed map[uuid.UUID]bool,
) []TrackResponse {
	responses := make([]TrackResponse, 0, len(tracks))

	for _, t := range tracks {
		totalLessons := 0
		completedLessons := 0
		modules := modulesByTrack[t.ID]
		moduleResponses := make([]ModuleResponse, 0, len(modules))

		for _, m := range modules {
			lessons := lessonsByModule[m.ID]
			lessonResponses := make([]LessonResponse, 0, len(lessons))
			moduleCompleted := 0

			for _, l := range lessons {
				done := completed[l.ID]
				if done {
					completedLessons++
					moduleCompleted++
				}
				totalLessons++
				lessonResponses = append(lessonResponses, LessonResponse{
					ID:        l.ID,
					Slug:      l.Slug,
					Title:     l.Title,
					Order:     l.Order,
					Completed: done,
				})
			}

			moduleResponses = append(moduleResponses, ModuleResponse{
				ID:          m.ID,
				Slug:        m.Slug,
				Title:       m.Title,
				Description: m.Description,
				Order:       m.Order,
				Progress:    percentage(moduleCompleted, len(lessons)),
				Lessons:     lessonResponses,
			})
		}

		responses = append(responses, TrackResponse{
			ID:          t.ID,
			Slug:        t.Slug,
			Name:        t.Name,
			Description: t.Description,
			Color:       t.Color,
			Progress:    percentage(completedLessons, totalLessons),
			Modules:     moduleResponses,
		})
	}

	return responses
}

// CompletedModuleSlugs returns slugs of modules whose every lesson is
// completed. A module with no lessons never qualifies.
func CompletedModuleSlugs(
	modules []TrackModule,
	lessonsByModule map[uuid.UUID][]TrackLesson,
	completed map[uuid.UUID]bool,
) []string {
	slugs := make([]string, 0)
	for _, m := range modules {
		lessons := lessonsByModule[m.ID]
		if len(lessons) == 0 {
			continue
		}
		all := true
		for _, l := range lessons {
			if !completed[l.ID] {
				all = false
				break
			}
		}
		if all {
			slugs = append(slugs, m.Slug)
		}
	}
	return slugs
}

func percentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*100*100) / 100
}
