package shared

const (
	UserID = "user_id"

	ActivityChat     = "chat"
	ActivityPractice = "practice"
	ActivityVocab    = "vocab"

	LevelA1 = "A1"
	LevelA2 = "A2"
	LevelB1 = "B1"
	LevelB2 = "B2"
	LevelC1 = "C1"
	LevelC2 = "C2"
)

// CEFRLevels is the closed set of proficiency tiers accepted anywhere a
// level is written.
var CEFRLevels = []string{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}
