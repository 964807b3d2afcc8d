package models

// NarrationRequest is everything the narrator sees when writing the
// character's reply to one turn.
type NarrationRequest struct {
	Turn      int
	Act       Act
	UserInput string
	Mode      InputMode
	Tag       Tag
	Stats     Stats
	// Delta holds this turn's scored change per stat.
	Delta  Stats
	Recent []Turn
	// Instruction is a behavioral override, e.g. for a running lockout.
	Instruction string
}
