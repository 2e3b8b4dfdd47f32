package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qpathAPI/internal/track"
)

type TrackService struct {
	db *pgxpool.Pool
}

func NewTrackService(db *pgxpool.Pool) *TrackService {
	return &TrackService{db: db}
}

type seedLesson struct {
	slug  string
	title string
	order int
}

type seedModule struct {
	slug        string
	title       string
	description string
	order       int
	lessons     []seedLesson
}

type seedTrack struct {
	slug        string
	name        string
	color       string
	description string
	modules     []seedModule
}

var defaultTracks = []seedTrack{
	{
		slug: "quantum", name: "Computação Quântica", color: "quantum",
		description: "Fundamentos para dominar computação quântica",
		modules: []seedModule{
			{
				slug: "q1", title: "Fundamentos Matemáticos",
				description: "Vetores, Matrizes e Probabilidade para Quantum", order: 1,
				lessons: []seedLesson{
					{slug: "q1l1", title: "Introdução a Vetores", order: 1},
					{slug: "q1l2", title: "Operações com Matrizes", order: 2},
					{slug: "q1l3", title: "Probabilidade Básica", order: 3},
				},
			},
		},
	},
	{
		slug: "security", name: "Cybersecurity", color: "cyber",
		description: "Domine os fundamentos de segurança da informação",
		modules: []seedModule{
			{
				slug: "s1", title: "Criptografia Essencial",
				description: "Fundamentos de Criptografia Simétrica e Assimétrica", order: 1,
				lessons: []seedLesson{
					{slug: "s1l1", title: "Criptografia Simétrica", order: 1},
					{slug: "s1l2", title: "Criptografia Assimétrica - RSA", order: 2},
				},
			},
		},
	},
	{
		slug: "english", name: "Inglês C1", color: "gold",
		description: "Preparação avançada para certificações Cambridge",
		modules: []seedModule{
			{
				slug: "e1", title: "Writing - Essay Structure",
				description: "Como estruturar redações para o exame Cambridge C1", order: 1,
				lessons: []seedLesson{
					{slug: "e1l1", title: "Estrutura básica de Essay", order: 1},
					{slug: "e1l2", title: "Argumentação e Desenvolvimento", order: 2},
					{slug: "e1l3", title: "Conclusões efetivas", order: 3},
					{slug: "e1l4", title: "Prática: Essay completo", order: 4},
				},
			},
		},
	},
	{
		slug: "software", name: "Software Development", color: "software",
		description: "Construa bases sólidas em engenharia de software",
		modules: []seedModule{
			{
				slug: "sw1", title: "Arquitetura de Software",
				description: "Padrões de design e boas práticas", order: 1,
				lessons: []seedLesson{
					{slug: "sw1l1", title: "SOLID Principles", order: 1},
					{slug: "sw1l2", title: "Design Patterns", order: 2},
				},
			},
		},
	},
}

// EnsureDefaults seeds the built-in catalog. Each level is inserted with
// ON CONFLICT on its slug, parents before children, so a partially seeded
// catalog self-heals on the next call.
func (s *TrackService) EnsureDefaults(ctx context.Context) error {
	for _, t := range defaultTracks {
		var trackID uuid.UUID
		err := s.db.QueryRow(ctx, `
		INSERT INTO learning_tracks (id, slug, name, description, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id`, uuid.New(), t.slug, t.name, t.description, t.color).Scan(&trackID)
		if err != nil {
			return fmt.Errorf("failed to seed track %s: %w", t.slug, err)
		}

		for _, m := range t.modules {
			var moduleID uuid.UUID
			err := s.db.QueryRow(ctx, `
			INSERT INTO track_modules (id, track_id, slug, title, description, display_order)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
			RETURNING id`, uuid.New(), trackID, m.slug, m.title, m.description, m.order).Scan(&moduleID)
			if err != nil {
				return fmt.Errorf("failed to seed module %s: %w", m.slug, err)
			}

			for _, l := range m.lessons {
				_, err := s.db.Exec(ctx, `
				INSERT INTO track_lessons (id, module_id, slug, title, display_order)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (slug) DO NOTHING`, uuid.New(), moduleID, l.slug, l.title, l.order)
				if err != nil {
					return fmt.Errorf("failed to seed lesson %s: %w", l.slug, err)
				}
			}
		}
	}

	log.Println("Learning track catalog seeded")
	return nil
}

func (s *TrackService) loadCatalog(ctx context.Context) ([]track.LearningTrack, map[uuid.UUID][]track.TrackModule, map[uuid.UUID][]track.TrackLesson, error) {
	trackRows, err := s.db.Query(ctx, `
	SELECT id, slug, name, description, color, created_at, updated_at
	FROM learning_tracks
	ORDER BY created_at, id`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load tracks: %w", err)
	}
	defer trackRows.Close()

	tracks := make([]track.LearningTrack, 0)
	for trackRows.Next() {
		var t track.LearningTrack
		if err := trackRows.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &t.Color, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, t)
	}
	if err := trackRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read tracks: %w", err)
	}

	moduleRows, err := s.db.Query(ctx, `
	SELECT id, track_id, slug, title, description, display_order, created_at, updated_at
	FROM track_modules
	ORDER BY display_order, id`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load modules: %w", err)
	}
	defer moduleRows.Close()

	modulesByTrack := make(map[uuid.UUID][]track.TrackModule)
	for moduleRows.Next() {
		var m track.TrackModule
		if err := moduleRows.Scan(&m.ID, &m.TrackID, &m.Slug, &m.Title, &m.Description, &m.Order, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan module: %w", err)
		}
		modulesByTrack[m.TrackID] = append(modulesByTrack[m.TrackID], m)
	}
	if err := moduleRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read modules: %w", err)
	}

	lessonRows, err := s.db.Query(ctx, `
	SELECT id, module_id, slug, title, display_order, created_at, updated_at
	FROM track_lessons
	ORDER BY display_order, id`)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	defer lessonRows.Close()

	lessonsByModule := make(map[uuid.UUID][]track.TrackLesson)
	for lessonRows.Next() {
		var l track.TrackLesson
		if err := lessonRows.Scan(&l.ID, &l.ModuleID, &l.Slug, &l.Title, &l.Order, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to scan lesson: %w", err)
		}
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], l)
	}
	if err := lessonRows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read lessons: %w", err)
	}

	return tracks, modulesByTrack, lessonsByModule, nil
}

func (s *TrackService) loadCompletedLessons(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := s.db.Query(ctx, `
	SELECT lesson_id FROM user_lesson_progress WHERE user_id = $1 AND completed`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lesson progress: %w", err)
	}
	defer rows.Close()

	completed := make(map[uuid.UUID]bool)
	for rows.Next() {
		var lessonID uuid.UUID
		if err := rows.Scan(&lessonID); err != nil {
			return nil, fmt.Errorf("failed to scan lesson progress: %w", err)
		}
		completed[lessonID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lesson progress: %w", err)
	}

	return completed, nil
}

// GetTracksWithProgress returns the full catalog annotated with the user's
// completion state.
func (s *TrackService) GetTracksWithProgress(ctx context.Context, userID uuid.UUID) ([]track.TrackResponse, error) {
	tracks, modulesByTrack, lessonsByModule, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.loadCompletedLessons(ctx, userID)
	if err != nil {
		return nil, err
	}
	return track.BuildResponses(tracks, modulesByTrack, lessonsByModule, completed), nil
}

func (s *TrackService) GetTrackSummary(ctx context.Context, userID uuid.UUID) ([]track.SummaryItem, error) {
	tracks, err := s.GetTracksWithProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := make([]track.SummaryItem, 0, len(tracks))
	for _, t := range tracks {
		summary = append(summary, track.SummaryItem{
			TrackID:  t.ID,
			Slug:     t.Slug,
			Name:     t.Name,
			Color:    t.Color,
			Progress: t.Progress,
		})
	}
	return summary, nil
}

// SetLessonCompletion upserts the user's progress row for one lesson.
// Re-marking a completed lesson refreshes completed_at; unmarking clears it.
func (s *TrackService) SetLessonCompletion(ctx context.Context, userID, lessonID uuid.UUID, completed bool) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM track_lessons WHERE id = $1)`, lessonID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check lesson: %w", err)
	}
	if !exists {
		return ErrNotFound
	}

	var completedAt *time.Time
	if completed {
		now := time.Now().UTC()
		completedAt = &now
	}

	_, err = s.db.Exec(ctx, `
	INSERT INTO user_lesson_progress (id, user_id, lesson_id, completed, completed_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, lesson_id)
	DO UPDATE SET completed = EXCLUDED.completed, completed_at = EXCLUDED.completed_at`,
		uuid.New(), userID, lessonID, completed, completedAt)
	if err != nil {
		return fmt.Errorf("failed to set lesson completion: %w", err)
	}

	return nil
}

// GetCompletedModuleSlugs lists modules where the user finished every lesson.
func (s *TrackService) GetCompletedModuleSlugs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	_, modulesByTrack, lessonsByModule, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.loadCompletedLessons(ctx, userID)
	if err != nil {
		return nil, err
	}

	modules := make([]track.TrackModule, 0)
	for _, ms := range modulesByTrack {
		modules = append(modules, ms...)
	}
	return track.CompletedModuleSlugs(modules, lessonsByModule, completed), nil
}

// GetLesson loads a single lesson by ID.
func (s *TrackService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*track.TrackLesson, error) {
	l := &track.TrackLesson{}
	err := s.db.QueryRow(ctx, `
	SELECT id, module_id, slug, title, display_order, created_at, updated_at
	FROM track_lessons WHERE id = $1`, lessonID).
		Scan(&l.ID, &l.ModuleID, &l.Slug, &l.Title, &l.Order, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	return l, nil
}
