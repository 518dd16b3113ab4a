package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// StartCommand — begin tracking a new activity, stopping any current one.
type StartCommand struct {
	Name        string   `long:"name" short:"n" description:"Activity name (required)"`
	Description string   `long:"description" short:"d" description:"Optional free-text description"`
	Tags        []string `long:"tag" short:"t" description:"Tag the activity (repeatable)"`
	At          string   `long:"at" description:"Start time as hh:mm (default: now)"`

	globals *GlobalFlags
	version string
}

// StopCommand — stop the current activity.
type StopCommand struct {
	At string `long:"at" description:"End time as hh:mm (default: now)"`

	globals *GlobalFlags
	version string
}

// StatusCommand — show the current activity and database statistics.
type StatusCommand struct {
	globals *GlobalFlags
	version string
}

// ListCommand — list activities for one day, optionally tag-filtered.
type ListCommand struct {
	Date string   `long:"date" description:"Day to list as YYYY-MM-DD (default: today)"`
	Tags []string `long:"tag" short:"t" description:"Only activities carrying every given tag (repeatable)"`

	globals *GlobalFlags
	version string
}

// ReportCommand — aggregate statistics, trends, and productivity score.
type ReportCommand struct {
	Window int `long:"window" short:"w" description:"Lookback window in days; 0 means all time" default:"-1"`

	globals *GlobalFlags
	version string
}

// TagsCommand — list all distinct tags.
type TagsCommand struct {
	globals *GlobalFlags
	version string
}

// ExportCommand — write all activities to JSON or CSV.
type ExportCommand struct {
	Format string `long:"format" short:"f" description:"Output format: json | csv" default:"json"`
	Out    string `long:"out" short:"o" description:"Output file (default: stdout)"`

	globals *GlobalFlags
	version string
}

// ImportCommand — bulk-load activities from a JSON or CSV file.
type ImportCommand struct {
	File   string `long:"file" description:"Input file (required)"`
	Format string `long:"format" description:"Input format: json | csv (default: by file extension)"`

	globals *GlobalFlags
	version string
}

// PurgeCommand — delete ALL tempo data with safety confirmation.
type PurgeCommand struct {
	Force bool `long:"force" description:"Skip safety confirmation prompt"`

	globals *GlobalFlags
	version string
}
