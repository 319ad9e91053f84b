package constants

import "time"

var APIConfig = struct {
	WikipediaBaseURL string
	WikipediaSiteURL string
	UserAgent        string
	RequestTimeout   time.Duration
	SearchLimit      int
	CategoryLimit    int
	PageBatchSize    int
	ThumbnailSize    int
}{
	WikipediaBaseURL: "https://he.wikipedia.org/w/api.php",
	WikipediaSiteURL: "https://he.wikipedia.org",
	UserAgent:        "OriginDaily/1.0 (Educational Project; contact@example.com)",
	RequestTimeout:   20 * time.Second,
	SearchLimit:      20,
	CategoryLimit:    50,
	PageBatchSize:    5, // upstream caps extract queries well below the nominal 50-ID limit
	ThumbnailSize:    300,
}

var RetryConfig = struct {
	MaxRetries    int
	InitialDelay  time.Duration
	BackoffFactor float64
}{
	MaxRetries:    3,
	InitialDelay:  2 * time.Second,
	BackoffFactor: 1.5,
}

var QueueConfig = struct {
	MaxConcurrent int
	DispatchDelay time.Duration
}{
	MaxConcurrent: 4,
	DispatchDelay: 800 * time.Millisecond,
}

var CuratorConfig = struct {
	ImagesPerCategory     int
	OverFetchFactor       int
	CategoryFetchFactor   float64
	MaxNamesPerGroup      int
	MaxCategoriesPerGroup int
	MinBirthYear          int
	RelaxYears            int
}{
	ImagesPerCategory:     10,
	OverFetchFactor:       3,   // over-fetch margin so the final pick is a real random sample
	CategoryFetchFactor:   1.5, // category search kicks in below this multiple of the target
	MaxNamesPerGroup:      15,
	MaxCategoriesPerGroup: 5,
	MinBirthYear:          1850,
	RelaxYears:            50,
}

var HistoryConfig = struct {
	MaxSize int
}{
	MaxSize: 10000,
}

var FilterConfig = struct {
	MinWidth            int
	MinHeight           int
	MinAspectRatio      float64
	MaxAspectRatio      float64
	PreferredWidth      int
	HeightEstimateRatio float64
}{
	MinWidth:            100,
	MinHeight:           75,
	MinAspectRatio:      0.5,
	MaxAspectRatio:      2.0,
	PreferredWidth:      500,
	HeightEstimateRatio: 0.75, // assume 4:3 when the URL only declares a width
}

var ClassifierConfig = struct {
	StrongIndicatorWeight int
	KeywordWeight         int
	NonHumanRatioMax      float64
	AcceptScore           int
	MinYear               int
	MaxYear               int
}{
	StrongIndicatorWeight: 2,
	KeywordWeight:         1,
	NonHumanRatioMax:      0.5,
	AcceptScore:           3,
	MinYear:               1700,
	MaxYear:               2023,
}

var ServerConfig = struct {
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}{
	ShutdownTimeout: 10 * time.Second,
	ReadTimeout:     15 * time.Second,
	WriteTimeout:    15 * time.Second,
}
