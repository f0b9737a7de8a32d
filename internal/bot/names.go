package bot

import "fmt"

var (
	firstNames = []string{"Chippy", "Buddy", "Sparky", "Ziggy", "Fuzzy", "Bumble", "Twinkle", "Whiskers"}
	lastNames  = []string{"Bot", "Knight", "Pawn", "Rook", "Bishop", "King", "Queen", "Chess"}
	avatars    = []string{"🤖", "🎮", "🎯", "🎲", "🧠", "⚡", "🌟", "🎪"}
)

// Name returns a random display name for a bot seat.
func (s *Strategy) Name() string {
	first := firstNames[s.pick(len(firstNames))]
	last := lastNames[s.pick(len(lastNames))]
	return fmt.Sprintf("%s %s", first, last)
}

func (s *Strategy) Avatar() string {
	return avatars[s.pick(len(avatars))]
}

func (s *Strategy) pick(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names.Intn(n)
}
