package cfg

type Cfg struct {
	// Paths
	ConfigPath  string
	ArchivePath string

	// Application configuration
	APIAccessKey string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
