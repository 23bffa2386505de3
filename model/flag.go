package model

// Flags represents the command line flags.
type Flags struct {
	Profile     string
	Region      string
	Regions     []string
	Version     bool
	Output      string
	OutputFile  string
	Notify      string
	Store       bool
	DBPath      string
	Schedule    string
	MetricsAddr string
	MaxParallel int
	LogLevel    string
	LogFormat   string
}
