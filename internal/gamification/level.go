package gamification

// XP thresholds for each level tier. A profile's current_level is always
// derived from total_xp through LevelForXP, never stored independently.
const (
	ExploradorXP      = 1000
	EspecialistaXP    = 3000
	MestreXP          = 7000
	QuantumGuardianXP = 15000
)

func LevelForXP(totalXP int) Level {
	switch {
	case totalXP >= QuantumGuardianXP:
		return LevelQuantumGuardian
	case totalXP >= MestreXP:
		return LevelMestre
	case totalXP >= EspecialistaXP:
		return LevelEspecialista
	case totalXP >= ExploradorXP:
		return LevelExplorador
	default:
		return LevelIniciante
	}
}
