package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Start  *StartCommand
	Stop   *StopCommand
	Status *StatusCommand
	List   *ListCommand
	Report *ReportCommand
	Tags   *TagsCommand
	Export *ExportCommand
	Import *ImportCommand
	Purge  *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "tempo"
	parser.LongDescription = "Local personal activity and time tracking: start/stop activities, query days, and report trends."

	cmds := &commands{
		Start:  &StartCommand{globals: &globals, version: version},
		Stop:   &StopCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Report: &ReportCommand{globals: &globals, version: version},
		Tags:   &TagsCommand{globals: &globals, version: version},
		Export: &ExportCommand{globals: &globals, version: version},
		Import: &ImportCommand{globals: &globals, version: version},
		Purge:  &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("start", "Start a new activity", "Start tracking a new activity, stopping the current one first.", cmds.Start)
	parser.AddCommand("stop", "Stop the current activity", "Stop the current activity and record its end time.", cmds.Stop)
	parser.AddCommand("status", "Show the current activity and statistics", "Show the current activity, its running duration, and database statistics.", cmds.Status)
	parser.AddCommand("list", "List activities for a day", "List activities for one day, optionally restricted to activities carrying every given tag.", cmds.List)
	parser.AddCommand("report", "Show aggregate statistics and trends", "Show period statistics, period-over-period trends, distributions, and the productivity score.", cmds.Report)
	parser.AddCommand("tags", "List all tags", "List every distinct tag across all activities.", cmds.Tags)
	parser.AddCommand("export", "Export activities", "Export all activities to JSON or CSV.", cmds.Export)
	parser.AddCommand("import", "Import activities", "Bulk-load activities from a JSON or CSV file.", cmds.Import)
	parser.AddCommand("purge", "Delete ALL tempo data", "Delete ALL tempo data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the tempo CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("tempo %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
