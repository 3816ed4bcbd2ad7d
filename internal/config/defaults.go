package config

// Post kinds, each with its own destination channel.
const (
	KindVocab   = "vocab"
	KindGrammar = "grammar"
	KindHumor   = "humor"
)

// Translation styles for vocab posts.
const (
	TranslationNatural = "natural"
	TranslationLiteral = "literal"
)

const (
	defaultConfigPath        = "~/.config/subpost/config.toml"
	projectConfigName        = "subpost.toml"
	defaultPostsDir          = "posts"
	defaultImagesDir         = "img"
	defaultLLMBaseURL        = "https://api.openai.com/v1"
	defaultVisionModel       = "gpt-4o-mini"
	defaultTextModel         = "gpt-4o-mini"
	defaultPreciseModel      = "gpt-4o"
	defaultCreativeModel     = "gpt-4o"
	defaultLLMTimeoutSeconds = 60
	defaultShortenerBaseURL  = "https://ablink.io"
	defaultShortenerTarget   = "https://subly-extension.vercel.app/landing"
	defaultShortenerTimeout  = 10
	defaultCropBottomPx      = 40
	defaultMaxProposals      = 3
	defaultSignature         = "Happy learning!"
	defaultVocabPromoLine    = "More posts like this on r/FrenchVocab"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// DefaultPostscripts is the stock pool of promotional postscripts. The
// bracketed span of each becomes the short link anchor.
func DefaultPostscripts() []string {
	return []string{
		"PS: If you watch Netflix on your computer and want to support this post, you can check [this tool] that I made.",
		"PS: If you like watching Netflix and sometimes hesitate between putting the subtitles in French or in your native language, I made a [little tool] that solves this problem",
		"PS: if you like watching French content on Netflix and sometimes hesitate between putting the subtitles in French or in your native language, I made a little tool called Subly that adjusts the subtitles to your level. If you want to support this post and if you think that this tool could be useful, feel free give it a try by [clicking here] ;)",
		"PS: if you like watching French content on Netflix and sometimes hesitate between putting the subtitles in French or in your native language, I made a little tool called Subly that I would recommend to use. This extension adjusts the subtitles to your level (if a subtitle is adapted to your level, it displays it in French, if a subtitle is too hard, it displays it in your native language). I use it to learn Portuguese, it provides a good balance between practicing your target language and enjoying the show. Here is [the link to try it].",
		"How to support these posts: check out [this tool] that I made to learn French with Netflix.",
		"If you want to improve your French while watching Netflix, here is a [simple tool] I made that decides if a subtitle should be displayed in French or in your Native language based on your level.",
		"Quick note: If you watch Netflix on your computer, I built a [simple tool] that shows subtitles in French only when the words are familiar to you, otherwise it switches to your native language.",
		"PS: If you're a Netflix user, I made a [simple tool] that automatically chooses between French and native subtitles depending on the vocabulary you know.",
		"PS: If you want to learn dozens of new words every time you watch a Netflix show, you can [try my tool called Subly].",
	}
}

func subreddit(name string) Destination {
	return Destination{Name: "r/" + name, URL: "https://www.reddit.com/r/" + name + "/"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PostsDir:  defaultPostsDir,
			ImagesDir: defaultImagesDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			VisionModel:    defaultVisionModel,
			TextModel:      defaultTextModel,
			PreciseModel:   defaultPreciseModel,
			CreativeModel:  defaultCreativeModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Shortener: Shortener{
			BaseURL:        defaultShortenerBaseURL,
			TargetURL:      defaultShortenerTarget,
			TimeoutSeconds: defaultShortenerTimeout,
		},
		Images: Images{
			CropBottomPx:  defaultCropBottomPx,
			DeleteSources: true,
		},
		Vocab: Vocab{
			TranslationStyle: TranslationNatural,
			VerifyRedaction:  true,
		},
		Grammar: Grammar{
			MaxProposalAttempts: defaultMaxProposals,
		},
		Publish: Publish{
			Postscripts: DefaultPostscripts(),
			Signature:   defaultSignature,
			Vocab: Channel{
				PromoLine: defaultVocabPromoLine,
				Destinations: []Destination{
					subreddit("FrenchImmersion"),
					subreddit("FrenchVocab"),
					subreddit("learnfrench"),
					subreddit("learningfrench"),
				},
			},
			Grammar: Channel{
				Destinations: []Destination{
					subreddit("FrenchImmersion"),
					subreddit("FrenchGrammar"),
					subreddit("learnfrench"),
					subreddit("learningfrench"),
				},
			},
			Humor: Channel{
				Destinations: []Destination{
					subreddit("FrenchImmersion"),
					subreddit("learnfrench"),
					subreddit("learningfrench"),
				},
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
