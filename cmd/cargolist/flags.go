package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logLevel  string
	logFormat string
}

// storageFlags selects the state backend.
type storageFlags struct {
	driver    string
	path      string
	redisAddr string
	keyPrefix string
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common     commonFlags
	storage    storageFlags
	addr       string
	timeout    string
	workers    int
	workersSet bool // --workers given, 0 included
}

// exportFlags holds flags for the export command.
type exportFlags struct {
	common   commonFlags
	storage  storageFlags
	format   string
	output   string
	sink     string
	timeout  string
	fontsURL string
}

// printFlags holds flags for the print command.
type printFlags struct {
	common  commonFlags
	storage storageFlags
	output  string
}

// importFlags holds flags for the import command.
type importFlags struct {
	common   commonFlags
	storage  storageFlags
	provider string
	model    string
	timeout  string
}

// resetFlags holds flags for the reset command.
type resetFlags struct {
	common  commonFlags
	storage storageFlags
	yes     bool
}

// showFlags holds flags for the show command.
type showFlags struct {
	common  commonFlags
	storage storageFlags
	format  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "debug logging")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addStorageFlags adds state backend flags to a FlagSet.
func addStorageFlags(fs *flag.FlagSet, f *storageFlags) {
	fs.StringVar(&f.driver, "storage", "", "storage driver: sqlite, redis, memory")
	fs.StringVar(&f.path, "storage-path", "", "sqlite database file")
	fs.StringVar(&f.redisAddr, "redis-addr", "", "redis host:port")
	fs.StringVar(&f.keyPrefix, "key-prefix", "", "prefix for every stored key")
}

// newFlagSet creates a FlagSet whose usage goes to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export and import timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 1, "export browsers (0 = from CPU count)")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.workersSet = fs.Changed("workers")
	return f, fs.Args(), nil
}

// parseExportFlags parses export command flags.
func parseExportFlags(args []string, w io.Writer) (*exportFlags, []string, error) {
	f := &exportFlags{}
	fs := newFlagSet("export", w, printExportUsage)
	fs.StringVarP(&f.format, "format", "f", "pdf", "artifact format: pdf, png, html")
	fs.StringVarP(&f.output, "output", "o", "", "output directory (fs sink)")
	fs.StringVar(&f.sink, "sink", "", "artifact sink: fs, s3")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.fontsURL, "fonts-url", "", "font stylesheet URL (\"none\" disables)")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parsePrintFlags parses print command flags.
func parsePrintFlags(args []string, w io.Writer) (*printFlags, []string, error) {
	f := &printFlags{}
	fs := newFlagSet("print", w, printPrintUsage)
	fs.StringVarP(&f.output, "output", "o", "", "output file (default stdout)")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseImportFlags parses import command flags.
func parseImportFlags(args []string, w io.Writer) (*importFlags, []string, error) {
	f := &importFlags{}
	fs := newFlagSet("import", w, printImportUsage)
	fs.StringVar(&f.provider, "provider", "", "extraction provider: gemini, anthropic, openai")
	fs.StringVar(&f.model, "model", "", "extraction model (default: provider default)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "extraction timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseResetFlags parses reset command flags.
func parseResetFlags(args []string, w io.Writer) (*resetFlags, []string, error) {
	f := &resetFlags{}
	fs := newFlagSet("reset", w, printResetUsage)
	fs.BoolVarP(&f.yes, "yes", "y", false, "confirm the reset")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseShowFlags parses show command flags.
func parseShowFlags(args []string, w io.Writer) (*showFlags, []string, error) {
	f := &showFlags{}
	fs := newFlagSet("show", w, printShowUsage)
	fs.StringVarP(&f.format, "format", "f", "table", "output format: table, yaml")
	addCommonFlags(fs, &f.common)
	addStorageFlags(fs, &f.storage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
