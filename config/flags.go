package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Flags holds parsed command-line flags.
type Flags struct {
	Help bool

	Port    int
	ID      string
	DataDir string
	Seeds   string

	Mine         bool
	NoBroadcast  bool
	SetMine      bool
	SetBroadcast bool

	LogLevel string
	LogFile  string
	LogJSON  bool
	SetJSON  bool
}

// ParseFlags parses os.Args per the CLI contract: --port <int> (default
// 5000), --id <string> (optional, disambiguates wallet files), plus the
// ambient logging and peer-seed flags this node adds beyond the minimal
// wire contract.
func ParseFlags() *Flags {
	f := &Flags{}
	fs := flag.NewFlagSet("coinnoded", flag.ContinueOnError)

	fs.BoolVar(&f.Help, "help", false, "Show this help message")
	fs.IntVar(&f.Port, "port", 0, "HTTP listen port (default 5000)")
	fs.StringVar(&f.ID, "id", "", "Disambiguates wallet key files when running multiple nodes")
	fs.StringVar(&f.DataDir, "datadir", "", "Directory holding the wallet keystore")
	fs.StringVar(&f.Seeds, "seeds", "", "Comma-separated peer addresses to register at startup")
	fs.BoolVar(&f.Mine, "mine", false, "Run the background mining loop")
	fs.BoolVar(&f.NoBroadcast, "no-broadcast", false, "Disable immediate broadcast of submitted transactions")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path (default: stdout only)")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Emit logs as JSON")

	fs.Usage = printUsage

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	f.SetMine = isFlagSet(fs, "mine")
	f.SetBroadcast = isFlagSet(fs, "no-broadcast")
	f.SetJSON = isFlagSet(fs, "log-json")

	return f
}

// ApplyFlags overlays parsed flags onto cfg, flags taking precedence over
// whatever Default() set.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.Port != 0 {
		cfg.Port = f.Port
	}
	if f.ID != "" {
		cfg.ID = f.ID
	}
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}
	if f.Seeds != "" {
		cfg.Seeds = parseStringList(f.Seeds)
	}
	if f.SetMine {
		cfg.Mining.Enabled = f.Mine
	}
	if f.SetBroadcast {
		cfg.Mining.AutoBroadcast = !f.NoBroadcast
	}
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// Load builds a Config from defaults overlaid with parsed command-line
// flags, and ensures the keystore directory exists.
func Load() (*Config, error) {
	flags := ParseFlags()
	if flags.Help {
		printUsage()
		os.Exit(0)
	}

	cfg := Default()
	ApplyFlags(cfg, flags)

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("ensuring data dir: %w", err)
	}
	return cfg, nil
}

func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			found = true
		}
	})
	return found
}

func parseStringList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printUsage() {
	usage := `coinnoded - peer-to-peer replicated ledger node

Usage:
  coinnoded [options]

Options:
  --port <int>        HTTP listen port (default 5000)
  --id <string>        Disambiguate wallet key files for multiple local nodes
  --datadir <path>      Directory holding the wallet keystore
  --seeds <list>        Comma-separated peer addresses to register at startup
  --mine                Run the background mining loop
  --no-broadcast        Disable immediate broadcast of submitted transactions
  --log-level <level>   debug, info, warn, error (default: info)
  --log-file <path>     Log file path (default: stdout only)
  --log-json            Emit logs as JSON
`
	fmt.Print(usage)
}
