package dice

//go:generate mockgen -package=mocks -destination=mocks/mock_roller.go github.com/KirkDiggler/diceroom/internal/dice Roller

import (
	"math/rand"
	"sync"
	"time"
)

// MinSides is the smallest die that can be rolled
const MinSides = 2

// MaxSides is the largest custom die, three digits as entered by players
const MaxSides = 999

// Roller provides dice rolling functionality
type Roller interface {
	// Roll returns a single face in [1, sides]
	Roll(sides int) int

	// RollMany returns count independent faces in [1, sides]
	RollMany(sides, count int) []int
}

// Config for dice roller
type Config struct {
	// Optional seed for testing
	Seed int64
}

type roller struct {
	mu     sync.Mutex
	random *rand.Rand
}

// New creates a new dice roller
func New(cfg *Config) Roller {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &roller{
		random: rand.New(rand.NewSource(seed)),
	}
}

// Roll generates a random dice roll with the specified number of sides
func (r *roller) Roll(sides int) int {
	if sides < MinSides {
		sides = MinSides
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.random.Intn(sides) + 1
}

// RollMany generates count rolls with the specified number of sides
func (r *roller) RollMany(sides, count int) []int {
	if sides < MinSides {
		sides = MinSides
	}
	if count < 1 {
		count = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	values := make([]int, count)
	for i := range values {
		values[i] = r.random.Intn(sides) + 1
	}
	return values
}

// Sum adds up a set of faces
func Sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
