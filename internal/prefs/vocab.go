package prefs

// The learning vocabularies are fixed, not user-configurable. Each entry maps
// a learned key to the message keywords that reinforce it; tables are iterated
// in declaration order so counter insertion order is deterministic.

type vocabEntry struct {
	key      string
	keywords []string
}

var tagVocab = []vocabEntry{
	{"quiet", []string{"quiet", "calm", "peaceful", "serene"}},
	{"night view", []string{"night", "late", "evening lights"}},
	{"historic", []string{"historic", "heritage", "museum", "history"}},
	{"riverside", []string{"river", "ghat", "waterfront"}},
	{"tea", []string{"tea", "cha", "chai", "stall"}},
	{"cafe", []string{"cafe", "coffee"}},
	{"street-food", []string{"street food", "kathi roll", "phuchka", "puchka", "chaat"}},
	{"family", []string{"family", "kids"}},
}

var intentVocab = []vocabEntry{
	{"food", []string{"food", "eat", "tea", "cafe", "street food", "restaurant"}},
	{"photography", []string{"photo", "photography", "iconic", "view"}},
	{"history", []string{"history", "historic", "heritage", "museum"}},
	{"quiet", []string{"quiet", "calm", "peaceful"}},
	{"explore", []string{"explore", "walk", "stroll", "discover"}},
}

// likeKeywords are coarse interest labels appended to the likes list on first
// sight in an interaction.
var likeKeywords = []string{"historical", "food", "religious", "art", "parks", "landmark"}
