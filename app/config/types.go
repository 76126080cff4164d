package config

// Config is the single JSON document backing all runtime configuration.
// Field names follow the on-disk schema exactly; the file is rewritten as a
// whole on every mutation, so the set of fields must survive a round-trip.
type Config struct {
	Crawler  CrawlerConfig  `json:"crawler"`
	Monitor  MonitorConfig  `json:"monitor"`
	Notifier NotifierConfig `json:"notifier"`
	Web      WebConfig      `json:"web"`
}

type CrawlerConfig struct {
	APIURL          string `json:"apiUrl"`
	NGAPassportUID  string `json:"ngaPassportUid"`
	NGAPassportCID  string `json:"ngaPassportCid"`
	UserAgent       string `json:"userAgent"`
	Timeout         int    `json:"timeout"`
	ResponseCharset string `json:"responseCharset,omitempty"`
}

type MonitorConfig struct {
	MonitorDuration         int               `json:"monitorDuration"`
	FetchPostsParallelLimit int               `json:"fetchPostsParallelLimit"`
	MonitoredThreads        []MonitoredThread `json:"monitoredThreads"`
}

type MonitoredThread struct {
	TID                uint64          `json:"tid"`
	AuthorNotification []uint64        `json:"authorNotification"`
	CheckInterval      int             `json:"checkInterval"`
	CheckSchedule      []CheckSchedule `json:"checkSchedule,omitempty"`
	Enabled            bool            `json:"enabled"`
	LastSeenPostNumber uint64          `json:"lastSeenPostNumber"`
}

// CheckSchedule is one override window. Rules are evaluated in list order;
// the first rule matching the current weekday and clock time wins.
type CheckSchedule struct {
	Days        []string `json:"days"`
	Description string   `json:"description,omitempty"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Interval    int      `json:"interval"`
}

type NotifierConfig struct {
	Bark    *BarkConfig    `json:"bark,omitempty"`
	Console *ConsoleConfig `json:"console,omitempty"`
}

type BarkConfig struct {
	Enabled   bool   `json:"enabled"`
	ServerURL string `json:"serverUrl"`
	DeviceKey string `json:"deviceKey"`
	BarkGroup string `json:"barkGroup,omitempty"`
}

type ConsoleConfig struct {
	Enabled bool `json:"enabled"`
}

type WebConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}
