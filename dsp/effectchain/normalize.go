package effectchain

import "strings"

// effectAliases maps alternative spellings to registered names.
var effectAliases = map[string]string{
	"gate":             "noise_gate",
	"noisegate":        "noise_gate",
	"dubecho":          "dub_echo",
	"rainbow":          "rainbow_machine",
	"bit_crusher":      "bitcrusher",
	"autowah":          "auto_wah",
	"reverb_short":     "short_reverb",
	"reverb_long":      "long_reverb",
	"feedback_network": "mfn",
	"mastering":        "master",
}

// normalizeEffectName lowercases name, maps '-' and ' ' to '_' and resolves
// aliases.
func normalizeEffectName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.NewReplacer("-", "_", " ", "_").Replace(n)
	if alias, ok := effectAliases[n]; ok {
		return alias
	}
	return n
}
