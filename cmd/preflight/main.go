// Package main provides the Preflight CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/preflight-ml/preflight/preprocess"
)

const version = "v0.1.0-dev"

func main() {
	showVersion := flag.Bool("version", false, "show version")
	disableNormalize := flag.Bool("disable-normalize", false, "drop NormalizeImage from the pipeline")
	disablePermute := flag.Bool("disable-permute", false, "drop ToCHWImage from the pipeline")
	device := flag.Int("device", -1, "enable accelerated preprocessing on the given device")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Preflight %s\n", version)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: preflight [flags] <config.yaml>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	p, err := preprocess.NewFromFile(flag.Arg(0))
	if err != nil {
		logrus.WithError(err).Fatal("failed to build pipeline")
	}
	if *disableNormalize {
		if err := p.DisableNormalize(); err != nil {
			logrus.WithError(err).Fatal("rebuild failed")
		}
	}
	if *disablePermute {
		if err := p.DisablePermute(); err != nil {
			logrus.WithError(err).Fatal("rebuild failed")
		}
	}
	if *device >= 0 {
		if err := p.EnableAcceleration(*device); err != nil {
			logrus.WithError(err).Fatal("failed to enable acceleration")
		}
		defer p.Close()
	}

	fmt.Println("Pipeline:")
	for i, name := range p.OperatorNames() {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}
