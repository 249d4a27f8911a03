package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/suparena/dynamoentity"
	"github.com/suparena/dynamoentity/processor"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
)

func main() {
	var opts processor.Options
	opts.BindFlags(flag.CommandLine)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: entitygen [flags] [package dir]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	// Handle version flag
	if *versionFlag || *vFlag {
		info := dynamoentity.GetVersionInfo()
		fmt.Printf("dynamoentity entitygen version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	// Run the generator
	processor.Main(opts, flag.CommandLine)
}
