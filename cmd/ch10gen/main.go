/*
NAME
  ch10gen - generates a synthetic IRIG-106 Chapter 10 recording from an ICD
  and a scenario.

DESCRIPTION
  ch10gen is a thin command-line front end over the pipeline package: it
  loads an ICD document and a scenario document, runs the generator, and
  writes the resulting Chapter 10 file. The CLI itself is out of the core
  specification's scope beyond its exit-code contract (spec.md §6); this
  is one reasonable front end, built in the teacher's own idiom rather than
  a third-party CLI framework (cmd/rv/main.go, cmd/looper/main.go).

LICENSE
  Copyright (C) 2024 the ch10gen project contributors.
*/

// Package main is the ch10gen command-line tool.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/Anthonymm0994/ch10-1553-flightgen/chapter10/timef1"
	"github.com/Anthonymm0994/ch10-1553-flightgen/icd"
	"github.com/Anthonymm0994/ch10-1553-flightgen/pipeline"
	"github.com/Anthonymm0994/ch10-1553-flightgen/scenario"
	"github.com/Anthonymm0994/ch10-1553-flightgen/validate"
)

// Exit codes (spec.md §6).
const (
	exitOK           = 0
	exitGeneric      = 1
	exitBadArgs      = 2
	exitFileNotFound = 3
	exitInvalidSpec  = 4
	exitIOFailure    = 5
)

// Logging configuration, in cmd/rv's style.
const (
	logPath      = "ch10gen.log"
	logMaxSizeMB = 50
	logMaxBackup = 5
	logMaxAgeDay = 28
	logSuppress  = true
)

func main() {
	os.Exit(run())
}

func run() int {
	icdPath := flag.String("icd", "", "path to the ICD document (required)")
	scenarioPath := flag.String("scenario", "", "path to the scenario document (required)")
	outPath := flag.String("out", "", "output Chapter 10 file path (required)")
	dataChannel := flag.Uint("channel", 0, "Chapter 10 channel ID for 1553 bus data (0 = default: 0x002 for bus A, 0x003 for bus B)")
	tmatsChannel := flag.Uint("tmats-channel", pipeline.DefaultTMATSChannelID, "Chapter 10 channel ID for the TMATS packet")
	timeChannel := flag.Uint("time-channel", pipeline.DefaultTimeChannelID, "Chapter 10 channel ID for Time-F1 packets")
	programName := flag.String("program", "ch10gen", "TMATS program name")
	logLevel := flag.Int("log-level", int(logging.Info), "log level (0=Debug .. 4=Fatal)")
	doValidate := flag.Bool("validate", true, "re-read and structurally validate the output file after writing")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAgeDay,
	}
	defer fileLog.Close()
	log := logging.New(int8(*logLevel), fileLog, logSuppress)

	if *icdPath == "" || *scenarioPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "ch10gen: -icd, -scenario, and -out are all required")
		flag.Usage()
		return exitBadArgs
	}

	d, err := icd.LoadFile(*icdPath)
	if err != nil {
		return reportLoadError(log, "icd", *icdPath, err)
	}

	sc, err := scenario.LoadFile(*scenarioPath, d)
	if err != nil {
		return reportLoadError(log, "scenario", *scenarioPath, err)
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Error("could not create output file", "path", *outPath, "error", err.Error())
		return exitIOFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := pipeline.BusConfig{
		TMATSChannelID: uint16(*tmatsChannel),
		TimeChannelID:  uint16(*timeChannel),
		DataChannelID:  uint16(*dataChannel),
		ProgramName:    *programName,
		TimeConfig:     timef1.Default(),
		Log:            log,
	}

	stats, err := pipeline.Generate(ctx, d, sc, cfg, out)
	if err != nil {
		if errors.Is(err, pipeline.ErrCancelled) {
			log.Warning("generation cancelled", "messages_written", stats.MessagesWritten)
			return exitGeneric
		}
		log.Error("generation failed", "error", err.Error())
		return exitIOFailure
	}

	log.Info("generation complete",
		"messages_written", stats.MessagesWritten,
		"tmats_packets", stats.Writer.TMATSPackets,
		"timef1_packets", stats.Writer.TimeF1Packets,
		"ms1553_packets", stats.Writer.MS1553Packets,
		"bytes_written", stats.Writer.BytesWritten,
		"out", *outPath,
	)
	for _, w := range stats.Warnings {
		log.Warning("generator warning", "detail", w)
	}
	fmt.Printf("wrote %s: %d messages, %d packets, %d bytes\n",
		*outPath, stats.MessagesWritten,
		stats.Writer.TMATSPackets+stats.Writer.TimeF1Packets+stats.Writer.MS1553Packets,
		stats.Writer.BytesWritten)

	if *doValidate {
		return validateOutput(log, *outPath)
	}
	return exitOK
}

func reportLoadError(log logging.Logger, kind, path string, err error) int {
	if errors.Is(err, os.ErrNotExist) {
		log.Error("file not found", "kind", kind, "path", path)
		return exitFileNotFound
	}
	log.Error("invalid document", "kind", kind, "path", path, "error", err.Error())
	return exitInvalidSpec
}

func validateOutput(log logging.Logger, path string) int {
	f, err := os.Open(path)
	if err != nil {
		log.Error("could not reopen output for validation", "error", err.Error())
		return exitIOFailure
	}
	defer f.Close()

	rep, err := validate.File(f)
	if err != nil {
		log.Error("validation failed to run", "error", err.Error())
		return exitIOFailure
	}
	for _, find := range rep.Findings {
		log.Warning("validation finding", "severity", find.Severity.String(), "code", find.Code, "offset", find.Offset, "message", find.Message)
	}
	if !rep.OK() {
		fmt.Fprintln(os.Stderr, "ch10gen: output file failed validation")
		return exitInvalidSpec
	}
	return exitOK
}
