package game

// Small fixed palette; assignment cycles by join order and repeats once a
// room outgrows it.
var playerColors = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#4699c3", "#f032e6", "#9a6324",
}

var playerAvatars = []string{
	"🦊", "🐼", "🐸", "🦉", "🐙", "🦄", "🐧", "🦖",
}

func pickColor(joinOrder int) string {
	return playerColors[joinOrder%len(playerColors)]
}

func pickAvatar(joinOrder int) string {
	return playerAvatars[joinOrder%len(playerAvatars)]
}
