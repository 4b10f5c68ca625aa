package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vsariola/timeline/version"
	"go.uber.org/zap"
)

func main() {
	script := flag.String("script", "", "Script to replay: a YAML file with the project and the pointer and key events.")
	verbose := flag.Bool("verbose", false, "Log the gestures and intents to standard error.")
	templateFile := flag.String("template", "", "Template for the report, using text/template with sprig functions. By default, lists the objects and the committed intents.")
	versionFlag := flag.Bool("version", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if *script == "" {
		flag.Usage()
		os.Exit(2)
	}
	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("could not create logger: %v", err)
		}
		defer logger.Sync()
	}
	data, err := os.ReadFile(*script)
	if err != nil {
		log.Fatalf("could not read script: %v", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		log.Fatal(err)
	}
	text := defaultTemplate
	if *templateFile != "" {
		b, err := os.ReadFile(*templateFile)
		if err != nil {
			log.Fatalf("could not read template: %v", err)
		}
		text = string(b)
	}
	result, err := Replay(s, logger)
	if err != nil {
		log.Fatalf("replay failed: %v", err)
	}
	if err := writeReport(os.Stdout, text, result); err != nil {
		log.Fatal(err)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Replays pointer and key events through a timeline edit session and reports the result.\nUsage: %s -script <file.yml> [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
