package game

import (
	"math/rand"
	"sync"
)

// codeAlphabet leaves out 0/O, 1/I/L and other glyphs people misread when a
// code is shared out loud or scribbled down.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const codeLength = 6

type codeGenerator struct {
	locker sync.Mutex
	rng    *rand.Rand
	taken  map[string]struct{}
}

func newCodeGenerator(seed int64) *codeGenerator {
	return &codeGenerator{
		rng:   rand.New(rand.NewSource(seed)),
		taken: make(map[string]struct{}),
	}
}

// Generate returns a fresh room code, retrying until it finds one not
// currently in use.
func (g *codeGenerator) Generate() string {
	g.locker.Lock()
	defer g.locker.Unlock()

	buf := make([]byte, codeLength)
	for {
		for i := range buf {
			buf[i] = codeAlphabet[g.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, exists := g.taken[code]; exists {
			continue
		}
		g.taken[code] = struct{}{}
		return code
	}
}

// Claim marks an externally supplied code as in use. Reports false if the
// code was already taken.
func (g *codeGenerator) Claim(code string) bool {
	g.locker.Lock()
	defer g.locker.Unlock()

	if _, exists := g.taken[code]; exists {
		return false
	}
	g.taken[code] = struct{}{}
	return true
}

func (g *codeGenerator) Dispose(code string) {
	g.locker.Lock()
	defer g.locker.Unlock()
	delete(g.taken, code)
}
