package gamification

// BuildAchievements evaluates the fixed badge set against current stats.
// Badges are derived, not stored, so they unlock retroactively when the
// underlying numbers move.
func BuildAchievements(profile *Profile, totalHours float64, streak int, completedModules map[string]struct{}, completedLessons int) []AchievementResponse {
	_, cryptoDone := completedModules["s1"]

	return []AchievementResponse{
		{
			ID:          "first_pomodoro",
			Name:        "Primeiro Circuito Quântico",
			Description: "Complete sua primeira sessão de foco registrada.",
			Unlocked:    profile.PomodoroSessions > 0 || totalHours > 0,
		},
		{
			ID:          "crypto_master",
			Name:        "Módulo de Criptografia Concluído",
			Description: "Finalize todas as lições do módulo de Criptografia Essencial.",
			Unlocked:    cryptoDone,
		},
		{
			ID:          "hundred_hours",
			Name:        "100h de Foco",
			Description: "Acumule 100 horas de estudo registradas.",
			Unlocked:    totalHours >= 100,
		},
		{
			ID:          "weekly_master",
			Name:        "Mestre da Semana",
			Description: "Mantenha uma sequência de pelo menos 7 dias de estudo.",
			Unlocked:    streak >= 7,
		},
		{
			ID:          "lesson_hunter",
			Name:        "Colecionador de Lições",
			Description: "Complete 20 lições nas trilhas de aprendizagem.",
			Unlocked:    completedLessons >= 20,
		},
	}
}
