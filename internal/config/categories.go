package config

// CategoryWeights orders command categories in /help output.
// Lower weight sorts first.
var CategoryWeights = map[string]int{
	"🕯️ Information": 0,
	"🎵 Music":        10,
	"🛠️ Maintenance": 60,
}
