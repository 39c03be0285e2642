package practice

// DefaultItems returns the built-in practice list: English minimal pairs
// followed by short sentences, translated to Bulgarian.
func DefaultItems() []Item {
	return []Item{
		NewPair("ship-sheep",
			Word{Text: "ship", IPA: "ʃɪp"},
			Word{Text: "sheep", IPA: "ʃiːp"},
			"кораб / овца"),
		NewPair("live-leave",
			Word{Text: "live", IPA: "lɪv"},
			Word{Text: "leave", IPA: "liːv"},
			"живея / тръгвам"),
		NewPair("full-fool",
			Word{Text: "full", IPA: "fʊl"},
			Word{Text: "fool", IPA: "fuːl"},
			"пълен / глупак"),
		NewPair("bad-bed",
			Word{Text: "bad", IPA: "bæd"},
			Word{Text: "bed", IPA: "bed"},
			"лош / легло"),
		NewPair("think-sink",
			Word{Text: "think", IPA: "θɪŋk"},
			Word{Text: "sink", IPA: "sɪŋk"},
			"мисля / мивка"),
		NewPair("very-wary",
			Word{Text: "very", IPA: "ˈveri"},
			Word{Text: "wary", IPA: "ˈweəri"},
			"много / предпазлив"),
		NewPair("light-right",
			Word{Text: "light", IPA: "laɪt"},
			Word{Text: "right", IPA: "raɪt"},
			"светлина / десен"),
		NewPair("walk-work",
			Word{Text: "walk", IPA: "wɔːk"},
			Word{Text: "work", IPA: "wɜːk"},
			"разходка / работа"),
		NewSentence("weather-lovely",
			Word{Text: "The weather is lovely today.", IPA: "ðə ˈweðər ɪz ˈlʌvli təˈdeɪ"},
			"Времето е прекрасно днес."),
		NewSentence("cup-of-tea",
			Word{Text: "I'd like a cup of tea, please.", IPA: "aɪd laɪk ə kʌp əv tiː pliːz"},
			"Бих искал чаша чай, моля."),
		NewSentence("sea-shells",
			Word{Text: "She sells sea shells by the seashore.", IPA: "ʃiː selz siː ʃelz baɪ ðə ˈsiːʃɔː"},
			"Тя продава морски миди на брега."),
		NewSentence("thinking-of-me",
			Word{Text: "Thank you for thinking of me.", IPA: "θæŋk juː fə ˈθɪŋkɪŋ əv miː"},
			"Благодаря, че мислиш за мен."),
	}
}
